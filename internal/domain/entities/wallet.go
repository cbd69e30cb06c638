package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WalletTransactionType represents the direction of a wallet movement
type WalletTransactionType string

const (
	WalletTxCredit WalletTransactionType = "CREDIT"
	WalletTxDebit  WalletTransactionType = "DEBIT"
)

// Wallet holds a user's withdrawable balance in paise
type Wallet struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	BalancePaise int64     `json:"balancePaise"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WalletTransaction is one ledger line against a wallet
type WalletTransaction struct {
	ID          uuid.UUID             `json:"id"`
	WalletID    uuid.UUID             `json:"walletId"`
	Type        WalletTransactionType `json:"type"`
	AmountPaise int64                 `json:"amountPaise"`
	Description string                `json:"description"`
	ReferenceID null.String           `json:"referenceId,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// WithdrawInput represents input for a withdrawal request
type WithdrawInput struct {
	AmountPaise int64 `json:"amountPaise" binding:"required,gt=0"`
}

// WithdrawalResult reports the TDS split applied to a withdrawal
type WithdrawalResult struct {
	TransactionID uuid.UUID `json:"transactionId"`
	GrossPaise    int64     `json:"grossPaise"`
	TDSPaise      int64     `json:"tdsPaise"`
	NetPaise      int64     `json:"netPaise"`
	BalancePaise  int64     `json:"balancePaise"`
}

// TaxEstimate is the withholding projection for a hypothetical withdrawal
type TaxEstimate struct {
	GrossPaise     int64  `json:"grossPaise"`
	TDSPaise       int64  `json:"tdsPaise"`
	NetPaise       int64  `json:"netPaise"`
	TDSRatePercent string `json:"tdsRatePercent"`
}
