package handler

import (
	"log"
	"net/http"

	"peachy/internal/middleware"
	"peachy/internal/service"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	svc *service.PayoutService
}

func NewPayoutHandler(svc *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{svc: svc}
}

// LinkStripe connects (or reuses) a Stripe Express account for payouts.
func (h *PayoutHandler) LinkStripe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.svc.LinkStripeAccount(c.Request.Context(), userID, req.Email)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Payout] link failed: user=%d err=%v", userID, err)
			c.JSON(status, gin.H{"error": "link failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stripe_account_id": w.StripeAccountID,
		"payout_verified":   w.PayoutVerified,
	})
}

// VerifyStripe refreshes the verified flag from Stripe's capability report.
func (h *PayoutHandler) VerifyStripe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	verified, err := h.svc.VerifyStripeAccount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout_verified": verified})
}

// SetPayPal stores a PayPal payout email pending admin review.
func (h *PayoutHandler) SetPayPal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetPayPal(userID, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout_verified": false, "message": "pending review"})
}

// SetBank stores bank details (encrypted at rest) pending admin review.
func (h *PayoutHandler) SetBank(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Details string `json:"details" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetBankDetails(userID, req.Details); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout_verified": false, "message": "pending review"})
}
