package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/domain/repositories"
)

// WalletUsecase handles wallet balances, withdrawals and the TDS split
type WalletUsecase struct {
	walletRepo repositories.WalletRepository
	uow        repositories.UnitOfWork
	audit      *AuditUsecase
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(walletRepo repositories.WalletRepository, uow repositories.UnitOfWork, audit *AuditUsecase) *WalletUsecase {
	return &WalletUsecase{walletRepo: walletRepo, uow: uow, audit: audit}
}

// GetWallet returns the user's wallet
func (u *WalletUsecase) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByUserID(ctx, userID)
}

// ListTransactions returns the user's wallet ledger
func (u *WalletUsecase) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return u.walletRepo.ListTransactions(ctx, wallet.ID, limit, offset)
}

// EstimateTax reports the TDS split for a hypothetical withdrawal. Pure
// function of the amount and the rate constant.
func (u *WalletUsecase) EstimateTax(amountPaise int64) (*entities.TaxEstimate, error) {
	if amountPaise <= 0 {
		return nil, domainerrors.BadRequest("amount must be positive")
	}
	tds := PercentOf(amountPaise, TDSRatePercent)
	return &entities.TaxEstimate{
		GrossPaise:     amountPaise,
		TDSPaise:       tds,
		NetPaise:       amountPaise - tds,
		TDSRatePercent: fmt.Sprintf("%d.00", TDSRatePercent),
	}, nil
}

// Withdraw debits the gross amount, withholds TDS and reports the net payout.
// The balance guard sits in the repository so concurrent withdrawals cannot
// overdraw.
func (u *WalletUsecase) Withdraw(ctx context.Context, userID uuid.UUID, input *entities.WithdrawInput) (*entities.WithdrawalResult, error) {
	if input.AmountPaise <= 0 {
		return nil, domainerrors.BadRequest("amount must be positive")
	}

	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tds := PercentOf(input.AmountPaise, TDSRatePercent)
	net := input.AmountPaise - tds
	txID := uuid.New()

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletRepo.AdjustBalance(txCtx, wallet.ID, -input.AmountPaise); err != nil {
			return err
		}
		return u.walletRepo.CreateTransaction(txCtx, &entities.WalletTransaction{
			ID:          txID,
			WalletID:    wallet.ID,
			Type:        entities.WalletTxDebit,
			AmountPaise: input.AmountPaise,
			Description: fmt.Sprintf("withdrawal: net %s, TDS withheld %s", PaiseToRupees(net), PaiseToRupees(tds)),
			ReferenceID: null.StringFrom("withdrawal:" + txID.String()),
		})
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, "wallet.withdrawn", "Wallet", wallet.ID.String(),
		map[string]interface{}{"balance_paise": wallet.BalancePaise},
		map[string]interface{}{"balance_paise": wallet.BalancePaise - input.AmountPaise},
		map[string]interface{}{"gross_paise": input.AmountPaise, "tds_paise": tds, "net_paise": net},
	)

	return &entities.WithdrawalResult{
		TransactionID: txID,
		GrossPaise:    input.AmountPaise,
		TDSPaise:      tds,
		NetPaise:      net,
		BalancePaise:  wallet.BalancePaise - input.AmountPaise,
	}, nil
}

// Credit adds funds to a user's wallet with a ledger row, creating the wallet
// on first use. Used by the payment-event and referral consumers.
func (u *WalletUsecase) Credit(ctx context.Context, userID uuid.UUID, amountPaise int64, description, referenceID string) error {
	if amountPaise <= 0 {
		return domainerrors.BadRequest("amount must be positive")
	}

	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err == domainerrors.ErrNotFound {
		wallet = &entities.Wallet{ID: uuid.New(), UserID: userID}
		if err := u.walletRepo.Create(ctx, wallet); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletRepo.AdjustBalance(txCtx, wallet.ID, amountPaise); err != nil {
			return err
		}
		tx := &entities.WalletTransaction{
			ID:          uuid.New(),
			WalletID:    wallet.ID,
			Type:        entities.WalletTxCredit,
			AmountPaise: amountPaise,
			Description: description,
		}
		if referenceID != "" {
			tx.ReferenceID = null.StringFrom(referenceID)
		}
		return u.walletRepo.CreateTransaction(txCtx, tx)
	})
}

// SumCreditsByReference exposes reference-prefixed credit sums for stats
func (u *WalletUsecase) SumCreditsByReference(ctx context.Context, userID uuid.UUID, prefix string) (int64, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return u.walletRepo.SumCreditsByReference(ctx, wallet.ID, prefix)
}
