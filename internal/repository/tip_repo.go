package repository

import (
	"peachy/internal/domain"
	"peachy/internal/models"

	"gorm.io/gorm"
)

type TipRepository struct {
	db *gorm.DB
}

func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{db: db}
}

func (r *TipRepository) Create(t *models.Tip) error {
	return r.db.Create(t).Error
}

func (r *TipRepository) GetByTransactionID(txID uint) (*models.Tip, error) {
	var t models.Tip
	if err := r.db.Where("transaction_id = ?", txID).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TipRepository) Update(t *models.Tip) error {
	return r.db.Save(t).Error
}

// Delete is the compensating delete for a tip whose payment did not settle.
func (r *TipRepository) Delete(id uint) error {
	return r.db.Delete(&models.Tip{}, id).Error
}
