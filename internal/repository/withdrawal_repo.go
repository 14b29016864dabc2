package repository

import (
	"peachy/internal/domain"
	"peachy/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Reserve inserts the withdrawal and moves its amount from balance to
// pending balance in one database transaction. The wallet row is locked so
// two concurrent requests cannot both pass the balance check.
func (r *WithdrawalRepository) Reserve(w *models.Withdrawal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockWallet(tx, w.UserID)
		if err != nil {
			return err
		}
		if wallet.BalanceCents < w.AmountCents {
			return domain.ErrInsufficientBalance
		}
		wallet.BalanceCents -= w.AmountCents
		wallet.PendingBalanceCents += w.AmountCents
		if err := tx.Save(wallet).Error; err != nil {
			return err
		}
		return tx.Create(w).Error
	})
}

// Finalize moves the reserved amount out of pending into total withdrawn
// and persists the completed withdrawal in one transaction.
func (r *WithdrawalRepository) Finalize(w *models.Withdrawal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockWallet(tx, w.UserID)
		if err != nil {
			return err
		}
		wallet.PendingBalanceCents -= w.AmountCents
		wallet.TotalWithdrawnCents += w.AmountCents
		if err := tx.Save(wallet).Error; err != nil {
			return err
		}
		return tx.Save(w).Error
	})
}

// Release returns the reserved amount to the balance (failure, rejection or
// cancellation) and persists the terminal withdrawal state.
func (r *WithdrawalRepository) Release(w *models.Withdrawal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockWallet(tx, w.UserID)
		if err != nil {
			return err
		}
		wallet.PendingBalanceCents -= w.AmountCents
		wallet.BalanceCents += w.AmountCents
		if err := tx.Save(wallet).Error; err != nil {
			return err
		}
		return tx.Save(w).Error
	})
}

func (r *WithdrawalRepository) GetByID(id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := r.db.First(&w, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) GetByOrderID(orderID string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := r.db.Where("order_id = ?", orderID).First(&w).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) Update(w *models.Withdrawal) error {
	return r.db.Save(w).Error
}

func (r *WithdrawalRepository) ListByUser(userID uint, limit int) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *WithdrawalRepository) ListByStatus(status string, limit int) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	err := r.db.Where("status = ?", status).Order("id ASC").Limit(limit).Find(&out).Error
	return out, err
}
