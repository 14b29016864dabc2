package handler

import (
	"net/http"
	"strconv"

	"peachy/internal/middleware"
	"peachy/internal/repository"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
	txRepo     *repository.TransactionRepository
}

func NewWalletHandler(walletRepo *repository.WalletRepository, txRepo *repository.TransactionRepository) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo, txRepo: txRepo}
}

// GetBalance returns the current user's wallet.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance_cents":         w.BalanceCents,
		"pending_balance_cents": w.PendingBalanceCents,
		"total_earned_cents":    w.TotalEarnedCents,
		"total_withdrawn_cents": w.TotalWithdrawnCents,
		"currency":              w.Currency,
		"payout_method":         w.PayoutMethod,
		"payout_verified":       w.PayoutVerified,
	})
}

// GetEarnings breaks lifetime earnings down by source.
func (h *WalletHandler) GetEarnings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_earned_cents":        w.TotalEarnedCents,
		"total_tips_cents":          w.TotalTipsCents,
		"total_subscriptions_cents": w.TotalSubscriptionsCents,
		"total_ppv_cents":           w.TotalPPVCents,
	})
}

// ListTransactions returns the user's ledger, newest first.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txs, err := h.txRepo.ListByUser(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
