package repository

import (
	"peachy/internal/domain"
	"peachy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository is the single mutation point for wallet balances. All
// credits and debits route through Adjust/DebitUpTo so the balance
// invariants hold in one place.
type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetOrCreate lazily creates the wallet on first access.
func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}
	w = &models.Wallet{UserID: userID, Currency: "USD", MinWithdrawalCents: 2000}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// Adjust adds deltaCents to the wallet balance. Positive deltas also bump
// total earned and the lifetime counter for the given category; negative
// deltas touch balance and total earned only (lifetime counters are
// append-only history). A negative delta larger than the balance fails with
// ErrInsufficientBalance.
func (r *WalletRepository) Adjust(userID uint, deltaCents int64, category string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		w, err := lockWallet(tx, userID)
		if err != nil {
			return err
		}
		if deltaCents < 0 && w.BalanceCents+deltaCents < 0 {
			return domain.ErrInsufficientBalance
		}
		w.BalanceCents += deltaCents
		if deltaCents > 0 {
			w.TotalEarnedCents += deltaCents
			switch category {
			case domain.EarningTip:
				w.TotalTipsCents += deltaCents
			case domain.EarningSubscription:
				w.TotalSubscriptionsCents += deltaCents
			case domain.EarningPPV:
				w.TotalPPVCents += deltaCents
			}
		} else {
			w.TotalEarnedCents += deltaCents
		}
		return tx.Save(w).Error
	})
}

// DebitUpTo removes at most amountCents from the balance and returns how
// much was actually taken. Used by refund reversals, which clamp at zero
// instead of failing.
func (r *WalletRepository) DebitUpTo(userID uint, amountCents int64) (int64, error) {
	var applied int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		w, err := lockWallet(tx, userID)
		if err != nil {
			return err
		}
		applied = amountCents
		if applied > w.BalanceCents {
			applied = w.BalanceCents
		}
		w.BalanceCents -= applied
		w.TotalEarnedCents -= applied
		return tx.Save(w).Error
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

func (r *WalletRepository) Save(w *models.Wallet) error {
	return r.db.Save(w).Error
}

// lockWallet loads the wallet row FOR UPDATE, creating it if absent, so
// concurrent check-then-mutate sequences on the same wallet serialize.
func lockWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&w).Error
	if err == gorm.ErrRecordNotFound {
		w = models.Wallet{UserID: userID, Currency: "USD", MinWithdrawalCents: 2000}
		if err := tx.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
