package repository

import (
	"peachy/internal/domain"
	"peachy/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(s *models.Subscription) error {
	return r.db.Create(s).Error
}

func (r *SubscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.First(&s, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetActive returns the fan's active subscription to a creator, if any.
func (r *SubscriptionRepository) GetActive(fanID, creatorID uint) (*models.Subscription, error) {
	var s models.Subscription
	err := r.db.Where("fan_id = ? AND creator_id = ? AND status = ?",
		fanID, creatorID, domain.SubscriptionStatusActive).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) Update(s *models.Subscription) error {
	return r.db.Save(s).Error
}

func (r *SubscriptionRepository) ListByFan(fanID uint) ([]models.Subscription, error) {
	var out []models.Subscription
	err := r.db.Where("fan_id = ?", fanID).Order("id DESC").Find(&out).Error
	return out, err
}
