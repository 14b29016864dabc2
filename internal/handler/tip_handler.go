package handler

import (
	"log"
	"net/http"

	"peachy/internal/domain"
	"peachy/internal/middleware"
	"peachy/internal/service"

	"github.com/gin-gonic/gin"
)

type TipHandler struct {
	pay *service.PaymentService
}

func NewTipHandler(pay *service.PaymentService) *TipHandler {
	return &TipHandler{pay: pay}
}

type TipRequest struct {
	CreatorID      uint   `json:"creator_id" binding:"required"`
	AmountCents    int64  `json:"amount_cents" binding:"required,min=1"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	PostID         *uint  `json:"post_id"`
	Anonymous      bool   `json:"anonymous"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Create charges the caller and credits the creator with the net amount.
func (h *TipHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.pay.Charge(c.Request.Context(), service.ChargeInput{
		PayerID:        userID,
		RecipientID:    req.CreatorID,
		AmountCents:    req.AmountCents,
		Kind:           domain.TxKindTip,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
		TipPostID:      req.PostID,
		TipAnonymous:   req.Anonymous,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Tip] charge failed: user=%d err=%v", userID, err)
			c.JSON(status, gin.H{"error": "tip failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}
