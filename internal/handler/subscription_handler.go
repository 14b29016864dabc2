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

type SubscriptionHandler struct {
	subRepo *repository.SubscriptionRepository
	pay     *service.PaymentService
}

func NewSubscriptionHandler(subRepo *repository.SubscriptionRepository, pay *service.PaymentService) *SubscriptionHandler {
	return &SubscriptionHandler{subRepo: subRepo, pay: pay}
}

type SubscribeRequest struct {
	CreatorID      uint   `json:"creator_id" binding:"required"`
	PriceCents     int64  `json:"price_cents" binding:"required,min=1"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Subscribe creates the subscription row and charges the first period. The
// subscription only turns ACTIVE when the charge settles.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CreatorID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot subscribe to yourself"})
		return
	}
	if existing, err := h.subRepo.GetActive(userID, req.CreatorID); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already subscribed", "subscription": existing})
		return
	}
	sub := &models.Subscription{
		FanID:      userID,
		CreatorID:  req.CreatorID,
		PriceCents: req.PriceCents,
		Status:     domain.SubscriptionStatusPending,
		PeriodDays: 30,
	}
	if err := h.subRepo.Create(sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription error"})
		return
	}
	tx, err := h.pay.Charge(c.Request.Context(), service.ChargeInput{
		PayerID:        userID,
		AmountCents:    req.PriceCents,
		Kind:           domain.TxKindSubscription,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
		SubscriptionID: &sub.ID,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Subscription] charge failed: sub=%d err=%v", sub.ID, err)
			c.JSON(status, gin.H{"error": "subscription charge failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscription": sub, "transaction": tx})
}

// Renew charges the next period for an existing subscription.
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	sub, err := h.subRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "subscription not found"})
		return
	}
	if sub.FanID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your subscription"})
		return
	}
	var req struct {
		PaymentMethod  string `json:"payment_method" binding:"required"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.pay.Charge(c.Request.Context(), service.ChargeInput{
		PayerID:        userID,
		AmountCents:    sub.PriceCents,
		Kind:           domain.TxKindSubscriptionRenewal,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
		SubscriptionID: &sub.ID,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub, "transaction": tx})
}

// Cancel stops future billing; access runs to the end of the paid period.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	sub, err := h.subRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "subscription not found"})
		return
	}
	if sub.FanID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your subscription"})
		return
	}
	sub.Status = domain.SubscriptionStatusCancelled
	sub.EndsAt = sub.NextBillingAt
	sub.NextBillingAt = nil
	if err := h.subRepo.Update(sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	subs, err := h.subRepo.ListByFan(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}
