package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
)

func TestWalletRepository_CreateAndAdjust(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	w := &entities.Wallet{ID: uuid.New(), UserID: userID, BalancePaise: 0, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, w))

	require.NoError(t, repo.AdjustBalance(ctx, w.ID, 150000))
	require.NoError(t, repo.AdjustBalance(ctx, w.ID, -50000))

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(100000), got.BalancePaise)
}

func TestWalletRepository_AdjustBalance_InsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	w := &entities.Wallet{ID: uuid.New(), UserID: uuid.New(), BalancePaise: 30000, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, w))

	err := repo.AdjustBalance(ctx, w.ID, -30001)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)

	// balance untouched after the failed debit
	got, err := repo.GetByUserID(ctx, w.UserID)
	require.NoError(t, err)
	require.Equal(t, int64(30000), got.BalancePaise)

	// an exact-balance debit drains it to zero
	require.NoError(t, repo.AdjustBalance(ctx, w.ID, -30000))
	got, err = repo.GetByUserID(ctx, w.UserID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.BalancePaise)
}

func TestWalletRepository_AdjustBalance_MissingWallet(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	err := repo.AdjustBalance(ctx, uuid.New(), 100)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	// missing wallet with a debit still reports insufficient funds since
	// the guard clause cannot distinguish the two
	err = repo.AdjustBalance(ctx, uuid.New(), -100)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)
}

func TestWalletRepository_TransactionsAndReferenceSum(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	w := &entities.Wallet{ID: uuid.New(), UserID: uuid.New(), CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, w))

	mk := func(txType entities.WalletTransactionType, amount int64, ref string) {
		tx := &entities.WalletTransaction{
			ID:          uuid.New(),
			WalletID:    w.ID,
			Type:        txType,
			AmountPaise: amount,
			Description: "test",
			CreatedAt:   time.Now(),
		}
		if ref != "" {
			tx.ReferenceID = null.StringFrom(ref)
		}
		require.NoError(t, repo.CreateTransaction(ctx, tx))
	}
	mk(entities.WalletTxCredit, 50000, "referral:"+uuid.NewString())
	mk(entities.WalletTxCredit, 50000, "referral:"+uuid.NewString())
	mk(entities.WalletTxCredit, 90000, "bonus:"+uuid.NewString())
	mk(entities.WalletTxDebit, 20000, "")

	txs, total, err := repo.ListTransactions(ctx, w.ID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Len(t, txs, 4)

	sum, err := repo.SumCreditsByReference(ctx, w.ID, "referral:")
	require.NoError(t, err)
	require.Equal(t, int64(100000), sum)

	none, err := repo.SumCreditsByReference(ctx, w.ID, "cashback:")
	require.NoError(t, err)
	require.Equal(t, int64(0), none)
}

func TestWalletRepository_GetByUserID_NotFound(t *testing.T) {
	db := newTestDB(t)
	createWalletTables(t, db)
	repo := NewWalletRepository(db)

	_, err := repo.GetByUserID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestWalletRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip table creation
	repo := NewWalletRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &entities.Wallet{ID: uuid.New(), UserID: uuid.New()})
	require.Error(t, err)

	_, err = repo.GetByUserID(ctx, uuid.New())
	require.Error(t, err)

	err = repo.AdjustBalance(ctx, uuid.New(), 1)
	require.Error(t, err)

	_, _, err = repo.ListTransactions(ctx, uuid.New(), 10, 0)
	require.Error(t, err)

	_, err = repo.SumCreditsByReference(ctx, uuid.New(), "referral:")
	require.Error(t, err)
}
