package repository

import (
	"peachy/internal/domain"
	"peachy/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) Update(t *models.Transaction) error {
	return r.db.Save(t).Error
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.First(&t, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetByProviderRef(ref string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.Where("provider_ref = ?", ref).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetByIdempotencyKey(key string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.Where("idempotency_key = ?", key).First(&t).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ListByUser(userID uint, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	err := r.db.Where("user_id = ? OR recipient_id = ?", userID, userID).
		Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// ListCompletedMissingFee returns completed rows whose fee was never
// assigned, for the platform-fee backfill sweep.
func (r *TransactionRepository) ListCompletedMissingFee(limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	err := r.db.Where("status = ? AND fee_cents IS NULL", domain.TxStatusCompleted).
		Order("id ASC").Limit(limit).Find(&out).Error
	return out, err
}
