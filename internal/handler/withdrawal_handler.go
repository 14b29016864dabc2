package handler

import (
	"log"
	"net/http"
	"strconv"

	"peachy/internal/domain"
	"peachy/internal/middleware"
	"peachy/internal/repository"
	"peachy/internal/service"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	svc            *service.WithdrawalService
	withdrawalRepo *repository.WithdrawalRepository
}

func NewWithdrawalHandler(svc *service.WithdrawalService, withdrawalRepo *repository.WithdrawalRepository) *WithdrawalHandler {
	return &WithdrawalHandler{svc: svc, withdrawalRepo: withdrawalRepo}
}

type CreateWithdrawalRequest struct {
	AmountCents    int64  `json:"amount_cents" binding:"required,min=1"`
	Method         string `json:"method" binding:"required"`
	AccountDetails string `json:"account_details"`
}

// Create requests a withdrawal. Creator only; the payout account must be
// verified and the amount at or above the wallet minimum.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if middleware.GetRole(c) != domain.RoleCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "creator only"})
		return
	}
	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.svc.Request(userID, req.AmountCents, req.Method, req.AccountDetails)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Withdrawal] request failed: user=%d err=%v", userID, err)
			c.JSON(status, gin.H{"error": "withdrawal failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":                     w.ID,
		"order_id":               w.OrderID,
		"amount_cents":           w.AmountCents,
		"fee_cents":              w.FeeCents,
		"net_cents":              w.NetCents,
		"status":                 w.Status,
		"estimated_arrival_days": w.EstimatedArrivalDays,
	})
}

func (h *WithdrawalHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	ws, err := h.withdrawalRepo.ListByUser(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": ws})
}

// Cancel withdraws a still-pending request and returns the reservation.
func (h *WithdrawalHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	w, err := h.svc.Cancel(userID, uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}
