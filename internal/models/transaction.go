package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is the append-only ledger row: one per monetary movement.
// Rows are created PENDING before the gateway is called so a crash mid-flow
// still leaves an auditable record, and are never deleted.
type Transaction struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"` // payer (or wallet owner for withdrawals)
	RecipientID *uint  `gorm:"index" json:"recipient_id"`
	Kind        string `gorm:"size:30;not null;index" json:"kind"`
	Status      string `gorm:"size:25;not null;index" json:"status"`

	AmountCents int64  `gorm:"not null" json:"amount_cents"` // gross; negative for withdrawals/refunds
	FeeCents    *int64 `json:"fee_cents"`                    // nil until computed
	NetCents    int64  `gorm:"not null;default:0" json:"net_cents"`
	Currency    string `gorm:"size:3;default:'USD'" json:"currency"`

	ProviderRef    string `gorm:"size:255;index" json:"provider_ref"`
	IdempotencyKey string `gorm:"size:255;uniqueIndex" json:"-"`
	FailureReason  string `gorm:"size:255" json:"failure_reason,omitempty"`

	// Optional links to what this movement settles.
	SubscriptionID *uint `gorm:"index" json:"subscription_id,omitempty"`
	PostID         *uint `gorm:"index" json:"post_id,omitempty"`
	MessageID      *uint `gorm:"index" json:"message_id,omitempty"`
	WithdrawalID   *uint `gorm:"index" json:"withdrawal_id,omitempty"`
	RefundOfID     *uint `gorm:"index" json:"refund_of_id,omitempty"`

	// Carried from the charge input so settlement can build the tip record.
	TipAnonymous bool `gorm:"not null;default:false" json:"-"`

	ProcessedAt *time.Time     `json:"processed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
