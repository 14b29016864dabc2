package service

import "peachy/internal/models"

// Store contracts consumed by the settlement services. The concrete GORM
// repositories in internal/repository satisfy them; tests use in-memory
// fakes.

type UserStore interface {
	GetByID(id uint) (*models.User, error)
}

type WalletStore interface {
	GetByUserID(userID uint) (*models.Wallet, error)
	GetOrCreate(userID uint) (*models.Wallet, error)
	Adjust(userID uint, deltaCents int64, category string) error
	DebitUpTo(userID uint, amountCents int64) (int64, error)
	Save(w *models.Wallet) error
}

type TransactionStore interface {
	Create(t *models.Transaction) error
	Update(t *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	GetByProviderRef(ref string) (*models.Transaction, error)
	GetByIdempotencyKey(key string) (*models.Transaction, error)
	ListCompletedMissingFee(limit int) ([]models.Transaction, error)
}

type WithdrawalStore interface {
	Reserve(w *models.Withdrawal) error
	Finalize(w *models.Withdrawal) error
	Release(w *models.Withdrawal) error
	GetByID(id uint) (*models.Withdrawal, error)
	Update(w *models.Withdrawal) error
}

type SubscriptionStore interface {
	GetByID(id uint) (*models.Subscription, error)
	Update(s *models.Subscription) error
}

type PostStore interface {
	GetByID(id uint) (*models.Post, error)
	CreatePurchase(p *models.PostPurchase) error
	DeletePurchase(postID, userID uint) error
}

type MessageStore interface {
	GetByID(id uint) (*models.Message, error)
	Update(m *models.Message) error
}

type TipStore interface {
	Create(t *models.Tip) error
	GetByTransactionID(txID uint) (*models.Tip, error)
	Update(t *models.Tip) error
	Delete(id uint) error
}

// Notifier fans out user-facing notifications. Calls are fire-and-forget:
// a notification failure never rolls back a financial state change.
type Notifier interface {
	PaymentConfirmed(userID uint, amountCents int64, reference string)
	TipReceived(userID uint, amountCents int64, anonymous bool)
	RefundIssued(userID uint, amountCents int64)
	WithdrawalRequested(userID uint, amountCents int64)
	WithdrawalCompleted(userID uint, amountCents int64)
	WithdrawalRejected(userID uint, reason string)
	PayoutAccountVerified(userID uint)
}
