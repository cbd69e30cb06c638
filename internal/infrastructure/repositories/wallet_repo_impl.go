package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/infrastructure/models"
)

// WalletRepository implements wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	m := &models.Wallet{
		ID:           wallet.ID,
		UserID:       wallet.UserID,
		BalancePaise: wallet.BalancePaise,
		CreatedAt:    wallet.CreatedAt,
		UpdatedAt:    wallet.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	wallet.ID = m.ID
	return nil
}

// GetByUserID gets a wallet by owner
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Wallet{
		ID:           m.ID,
		UserID:       m.UserID,
		BalancePaise: m.BalancePaise,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// AdjustBalance applies a signed delta. The guard in the WHERE clause keeps
// the balance from going negative under concurrent debits.
func (r *WalletRepository) AdjustBalance(ctx context.Context, walletID uuid.UUID, deltaPaise int64) error {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", walletID)
	if deltaPaise < 0 {
		q = q.Where("balance_paise >= ?", -deltaPaise)
	}

	result := q.Updates(map[string]interface{}{
		"balance_paise": gorm.Expr("balance_paise + ?", deltaPaise),
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if deltaPaise < 0 {
			return domainerrors.ErrInsufficientBalance
		}
		return domainerrors.ErrNotFound
	}
	return nil
}

// CreateTransaction appends a wallet ledger line
func (r *WalletRepository) CreateTransaction(ctx context.Context, tx *entities.WalletTransaction) error {
	m := &models.WalletTransaction{
		ID:          tx.ID,
		WalletID:    tx.WalletID,
		Type:        string(tx.Type),
		AmountPaise: tx.AmountPaise,
		Description: tx.Description,
		ReferenceID: tx.ReferenceID.Ptr(),
		CreatedAt:   tx.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tx.ID = m.ID
	return nil
}

// ListTransactions lists wallet ledger lines with pagination
func (r *WalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.WalletTransaction
	if err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var txs []*entities.WalletTransaction
	for _, m := range ms {
		txs = append(txs, &entities.WalletTransaction{
			ID:          m.ID,
			WalletID:    m.WalletID,
			Type:        entities.WalletTransactionType(m.Type),
			AmountPaise: m.AmountPaise,
			Description: m.Description,
			ReferenceID: null.StringFromPtr(m.ReferenceID),
			CreatedAt:   m.CreatedAt,
		})
	}
	return txs, int(total), nil
}

// SumCreditsByReference sums credits whose reference starts with the prefix.
// Used for referral earnings aggregation.
func (r *WalletRepository) SumCreditsByReference(ctx context.Context, walletID uuid.UUID, referencePrefix string) (int64, error) {
	var sum *int64
	err := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND type = ? AND reference_id LIKE ?", walletID, string(entities.WalletTxCredit), referencePrefix+"%").
		Select("SUM(amount_paise)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
