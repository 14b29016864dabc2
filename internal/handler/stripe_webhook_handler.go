package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"peachy/config"
	"peachy/internal/models"
	"peachy/internal/repository"
	"peachy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

type StripeWebhookHandler struct {
	cfg        *config.Config
	paymentSvc *service.PaymentService
	auditRepo  *repository.AuditLogRepository
}

func NewStripeWebhookHandler(cfg *config.Config, paymentSvc *service.PaymentService, auditRepo *repository.AuditLogRepository) *StripeWebhookHandler {
	return &StripeWebhookHandler{cfg: cfg, paymentSvc: paymentSvc, auditRepo: auditRepo}
}

// Handle receives Stripe events. Signature verification is mandatory when a
// webhook secret is configured. Unknown event types and references we do not
// track are acknowledged with 200 so Stripe stops retrying them.
func (h *StripeWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	var event stripe.Event
	if h.cfg.Stripe.WebhookSecret != "" {
		event, err = webhook.ConstructEvent(body, c.GetHeader("Stripe-Signature"), h.cfg.Stripe.WebhookSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	} else if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		h.handlePaymentIntent(c, event, true)
	case "payment_intent.payment_failed":
		h.handlePaymentIntent(c, event, false)
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (h *StripeWebhookHandler) handlePaymentIntent(c *gin.Context, event stripe.Event, succeeded bool) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment intent"})
		return
	}

	var tx *models.Transaction
	var err error
	if succeeded {
		tx, err = h.paymentSvc.CompleteVerified(pi.ID)
	} else {
		reason := "payment failed"
		if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
			reason = pi.LastPaymentError.Msg
		}
		tx, err = h.paymentSvc.FailVerified(pi.ID, reason)
	}
	if err != nil {
		// A reference we never issued is not an error worth a retry storm.
		log.Printf("[StripeWebhook] %s for %s: %v", event.Type, pi.ID, err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	action := "payment_failed"
	if succeeded {
		action = "payment_completed"
	}
	uid := tx.UserID
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &uid,
		Action:     action,
		Resource:   "transaction",
		ResourceID: pi.ID,
	})
	c.JSON(http.StatusOK, gin.H{"received": true})
}
