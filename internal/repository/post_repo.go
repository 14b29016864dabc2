package repository

import (
	"peachy/internal/domain"
	"peachy/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(p *models.Post) error {
	return r.db.Create(p).Error
}

func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	var p models.Post
	if err := r.db.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) Update(p *models.Post) error {
	return r.db.Save(p).Error
}

func (r *PostRepository) ListByCreator(creatorID uint, limit int) ([]models.Post, error) {
	var out []models.Post
	err := r.db.Where("creator_id = ?", creatorID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *PostRepository) CreatePurchase(p *models.PostPurchase) error {
	return r.db.Create(p).Error
}

func (r *PostRepository) GetPurchase(postID, userID uint) (*models.PostPurchase, error) {
	var p models.PostPurchase
	err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeletePurchase removes the unlock record when the purchase is refunded.
func (r *PostRepository) DeletePurchase(postID, userID uint) error {
	return r.db.Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostPurchase{}).Error
}
