package handler

import (
	"log"
	"net/http"
	"strconv"

	"peachy/internal/domain"
	"peachy/internal/middleware"
	"peachy/internal/models"
	"peachy/internal/repository"
	"peachy/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	withdrawalSvc  *service.WithdrawalService
	paymentSvc     *service.PaymentService
	payoutSvc      *service.PayoutService
	sweeper        *service.FeeSweeper
	withdrawalRepo *repository.WithdrawalRepository
	auditRepo      *repository.AuditLogRepository
}

func NewAdminHandler(
	withdrawalSvc *service.WithdrawalService,
	paymentSvc *service.PaymentService,
	payoutSvc *service.PayoutService,
	sweeper *service.FeeSweeper,
	withdrawalRepo *repository.WithdrawalRepository,
	auditRepo *repository.AuditLogRepository,
) *AdminHandler {
	return &AdminHandler{
		withdrawalSvc:  withdrawalSvc,
		paymentSvc:     paymentSvc,
		payoutSvc:      payoutSvc,
		sweeper:        sweeper,
		withdrawalRepo: withdrawalRepo,
		auditRepo:      auditRepo,
	}
}

// ListWithdrawals returns the review queue, filtered by status.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	status := c.DefaultQuery("status", domain.WithdrawalStatusPending)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	ws, err := h.withdrawalRepo.ListByStatus(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": ws})
}

// ProcessWithdrawal executes a pending payout.
func (h *AdminHandler) ProcessWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	w, err := h.withdrawalSvc.Process(c.Request.Context(), uint(id))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Admin] process withdrawal %d failed: %v", id, err)
			c.JSON(status, gin.H{"error": "process failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	h.auditLog(c, "withdrawal_processed", "withdrawal", w.OrderID)
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

// RejectWithdrawal declines a pending request and returns the reservation.
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.withdrawalSvc.Reject(uint(id), req.Reason)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	h.auditLog(c, "withdrawal_rejected", "withdrawal", w.OrderID)
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

// RefundTransaction reverses a completed payment.
func (h *AdminHandler) RefundTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	tx, err := h.paymentSvc.Refund(c.Request.Context(), uint(id))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Admin] refund tx %d failed: %v", id, err)
			c.JSON(status, gin.H{"error": "refund failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	h.auditLog(c, "transaction_refunded", "transaction", strconv.FormatUint(id, 10))
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// SetPayoutVerified is the manual review flip for non-Stripe payout methods.
func (h *AdminHandler) SetPayoutVerified(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.payoutSvc.AdminSetVerified(uint(userID), *req.Verified); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	h.auditLog(c, "payout_verification_set", "wallet", strconv.FormatUint(userID, 10))
	c.JSON(http.StatusOK, gin.H{"payout_verified": *req.Verified})
}

// RunFeeSweep backfills fees on completed transactions missing one.
func (h *AdminHandler) RunFeeSweep(c *gin.Context) {
	n, err := h.sweeper.Run()
	if err != nil {
		log.Printf("[Admin] fee sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed", "updated": n})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *AdminHandler) auditLog(c *gin.Context, action, resource, resourceID string) {
	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &adminID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}
