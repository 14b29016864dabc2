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

type PostHandler struct {
	postRepo *repository.PostRepository
	subRepo  *repository.SubscriptionRepository
	pay      *service.PaymentService
}

func NewPostHandler(postRepo *repository.PostRepository, subRepo *repository.SubscriptionRepository, pay *service.PaymentService) *PostHandler {
	return &PostHandler{postRepo: postRepo, subRepo: subRepo, pay: pay}
}

type CreatePostRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	Body       string `json:"body"`
	MediaURL   string `json:"media_url"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
}

// Create publishes a post. Creator only.
func (h *PostHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.Post{
		CreatorID:  userID,
		Title:      req.Title,
		Body:       req.Body,
		MediaURL:   req.MediaURL,
		PriceCents: req.PriceCents,
	}
	if err := h.postRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "post error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

// Get returns a post, hiding the body and media of paid posts the caller has
// not unlocked. Subscribers see everything; so does the creator.
func (h *PostHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "post not found"})
		return
	}
	unlocked := h.canView(p, userID)
	if !unlocked {
		locked := *p
		locked.Body = ""
		locked.MediaURL = ""
		c.JSON(http.StatusOK, gin.H{"post": &locked, "unlocked": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p, "unlocked": true})
}

func (h *PostHandler) ListByCreator(c *gin.Context) {
	creatorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	posts, err := h.postRepo.ListByCreator(uint(creatorID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "post error"})
		return
	}
	// Strip paid bodies in list view; Get handles per-user unlock.
	for i := range posts {
		if posts[i].PriceCents > 0 {
			posts[i].Body = ""
			posts[i].MediaURL = ""
		}
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

type PurchasePostRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Purchase unlocks a pay-per-view post.
func (h *PostHandler) Purchase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := h.postRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "post not found"})
		return
	}
	if p.PriceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post is not pay-per-view"})
		return
	}
	if _, err := h.postRepo.GetPurchase(p.ID, userID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "already unlocked"})
		return
	}
	var req PurchasePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	postID := p.ID
	tx, err := h.pay.Charge(c.Request.Context(), service.ChargeInput{
		PayerID:        userID,
		AmountCents:    p.PriceCents,
		Kind:           domain.TxKindPostPurchase,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: req.IdempotencyKey,
		PostID:         &postID,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[Post] purchase failed: post=%d user=%d err=%v", p.ID, userID, err)
			c.JSON(status, gin.H{"error": "purchase failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

func (h *PostHandler) canView(p *models.Post, userID uint) bool {
	if p.PriceCents <= 0 || p.CreatorID == userID {
		return true
	}
	if _, err := h.postRepo.GetPurchase(p.ID, userID); err == nil {
		return true
	}
	if sub, err := h.subRepo.GetActive(userID, p.CreatorID); err == nil && sub != nil {
		return true
	}
	return false
}
