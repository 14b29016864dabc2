package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is one per user. BalanceCents is available for withdrawal;
// PendingBalanceCents holds amounts reserved by in-flight withdrawals.
// Both must stay >= 0. Lifetime counters are append-only history and are
// never decremented by refund reversals.
type Wallet struct {
	ID                  uint  `gorm:"primaryKey" json:"id"`
	UserID              uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	BalanceCents        int64 `gorm:"not null;default:0" json:"balance_cents"`
	PendingBalanceCents int64 `gorm:"not null;default:0" json:"pending_balance_cents"`
	TotalEarnedCents    int64 `gorm:"not null;default:0" json:"total_earned_cents"`
	TotalWithdrawnCents int64 `gorm:"not null;default:0" json:"total_withdrawn_cents"`

	// Lifetime earnings by category.
	TotalTipsCents          int64 `gorm:"not null;default:0" json:"total_tips_cents"`
	TotalSubscriptionsCents int64 `gorm:"not null;default:0" json:"total_subscriptions_cents"`
	TotalPPVCents           int64 `gorm:"not null;default:0" json:"total_ppv_cents"`

	MinWithdrawalCents int64  `gorm:"not null;default:2000" json:"min_withdrawal_cents"`
	Currency           string `gorm:"size:3;default:'USD'" json:"currency"`

	// Payout account linkage.
	PayoutMethod    string `gorm:"size:20" json:"payout_method"`
	StripeAccountID string `gorm:"size:64" json:"-"`
	PayPalEmail     string `gorm:"size:255" json:"-"`
	BankDetailsEnc  string `gorm:"type:text" json:"-"` // AES-GCM, base64
	PayoutVerified  bool   `gorm:"not null;default:false" json:"payout_verified"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
