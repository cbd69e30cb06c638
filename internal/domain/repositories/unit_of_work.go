package repositories

import "context"

// UnitOfWork runs a function within a storage transaction. Repositories
// participating in the transaction read it from the context.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
