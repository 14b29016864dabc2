package models

import (
	"time"

	"gorm.io/gorm"
)

// Tip only exists while its backing transaction is completed: it is created
// after the charge succeeds and compensating-deleted if settlement fails.
type Tip struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FromUserID    uint           `gorm:"not null;index" json:"from_user_id"`
	ToUserID      uint           `gorm:"not null;index" json:"to_user_id"`
	PostID        *uint          `gorm:"index" json:"post_id,omitempty"`
	TransactionID uint           `gorm:"not null;index" json:"transaction_id"`
	AmountCents   int64          `gorm:"not null" json:"amount_cents"`
	Anonymous     bool           `gorm:"not null;default:false" json:"anonymous"`
	Notified      bool           `gorm:"not null;default:false" json:"notified"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tip) TableName() string {
	return "tips"
}
