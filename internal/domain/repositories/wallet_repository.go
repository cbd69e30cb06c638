package repositories

import (
	"context"

	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	// AdjustBalance applies a signed delta to the wallet balance and fails if
	// the result would be negative.
	AdjustBalance(ctx context.Context, walletID uuid.UUID, deltaPaise int64) error
	CreateTransaction(ctx context.Context, tx *entities.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int, error)
	SumCreditsByReference(ctx context.Context, walletID uuid.UUID, referencePrefix string) (int64, error)
}
