package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"preipo-sip.backend/internal/domain/entities"
	domainerrors "preipo-sip.backend/internal/domain/errors"
	"preipo-sip.backend/internal/interfaces/http/middleware"
	"preipo-sip.backend/internal/interfaces/http/response"
	"preipo-sip.backend/internal/usecases"
)

type walletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int, error)
	Withdraw(ctx context.Context, userID uuid.UUID, input *entities.WithdrawInput) (*entities.WithdrawalResult, error)
	EstimateTax(amountPaise int64) (*entities.TaxEstimate, error)
}

// WalletHandler handles wallet and withdrawal endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// Get returns the caller's wallet balance
// GET /api/v1/wallet
func (h *WalletHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, wallet)
}

// Transactions returns the caller's wallet ledger
// GET /api/v1/wallet/transactions
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	limit, offset := pageParams(c)
	txs, total, err := h.walletUsecase.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	if txs == nil {
		txs = []*entities.WalletTransaction{}
	}
	response.SuccessWithMeta(c, http.StatusOK, txs, response.Meta{Total: total, Limit: limit, Offset: offset})
}

// Withdraw debits the wallet, withholding TDS
// POST /api/v1/wallet/withdrawals
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var input entities.WithdrawInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.walletUsecase.Withdraw(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// EstimateTax previews the TDS split for a hypothetical withdrawal
// GET /api/v1/wallet/tax/estimate?amount_paise=100000
func (h *WalletHandler) EstimateTax(c *gin.Context) {
	amount, err := strconv.ParseInt(c.Query("amount_paise"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("amount_paise must be an integer"))
		return
	}

	estimate, err := h.walletUsecase.EstimateTax(amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, estimate)
}
