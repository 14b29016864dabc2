package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal is one payout request. Creating one moves AmountCents from the
// wallet's balance into its pending balance; completion moves it on to
// total withdrawn, and failure or rejection returns it to balance.
type Withdrawal struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	OrderID string `gorm:"size:64;uniqueIndex;not null" json:"order_id"`

	AmountCents int64 `gorm:"not null" json:"amount_cents"`
	FeeCents    int64 `gorm:"not null" json:"fee_cents"`
	NetCents    int64 `gorm:"not null" json:"net_cents"`

	Method               string `gorm:"size:20;not null" json:"method"`
	Status               string `gorm:"size:20;not null;index" json:"status"`
	AccountDetailsEnc    string `gorm:"type:text" json:"-"` // AES-GCM, base64
	EstimatedArrivalDays int    `gorm:"not null;default:3" json:"estimated_arrival_days"`

	ProviderRef     string `gorm:"size:128" json:"provider_ref"`
	RejectionReason string `gorm:"size:255" json:"rejection_reason,omitempty"`
	FailureReason   string `gorm:"size:255" json:"failure_reason,omitempty"`

	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
