package handler

import (
	"net/http"
	"strconv"
	"time"

	"peachy/internal/domain"
	"peachy/internal/middleware"
	"peachy/internal/models"
	"peachy/internal/repository"
	"peachy/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	msgRepo *repository.MessageRepository
	pay     *service.PaymentService
}

func NewMessageHandler(msgRepo *repository.MessageRepository, pay *service.PaymentService) *MessageHandler {
	return &MessageHandler{msgRepo: msgRepo, pay: pay}
}

type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
	MediaURL    string `json:"media_url"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
}

// Send creates a direct message. A positive price locks the body until the
// recipient purchases it.
func (h *MessageHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RecipientID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}
	m := &models.Message{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
		MediaURL:    req.MediaURL,
		PriceCents:  req.PriceCents,
	}
	if err := h.msgRepo.Create(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "message error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": m})
}

// Conversation lists messages between the caller and another user, locking
// unpaid bodies addressed to the caller.
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	otherID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	msgs, err := h.msgRepo.ListConversation(userID, uint(otherID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "message error"})
		return
	}
	for i := range msgs {
		m := &msgs[i]
		if m.PriceCents > 0 && !m.Paid && m.RecipientID == userID {
			m.Body = ""
			m.MediaURL = ""
		}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkRead stamps a message read. Recipient only.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	m, err := h.msgRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "message not found"})
		return
	}
	if m.RecipientID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your message"})
		return
	}
	if m.ReadAt == nil {
		now := time.Now()
		m.ReadAt = &now
		if err := h.msgRepo.Update(m); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": m})
}

type PurchaseMessageRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Purchase unlocks a paid message for its recipient.
func (h *MessageHandler) Purchase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	m, err := h.msgRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "message not found"})
		return
	}
	if m.PriceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is not locked"})
		return
	}
	if m.Paid {
		c.JSON(http.StatusConflict, gin.H{"error": "already unlocked"})
		return
	}
	var req PurchaseMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msgID := m.ID
	tx, err := h.pay.Charge(c.Request.Context(), service.ChargeInput{
		PayerID:        userID,
		AmountCents:    m.PriceCents,
		Kind:           domain.TxKindMessagePurchase,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
		MessageID:      &msgID,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}
