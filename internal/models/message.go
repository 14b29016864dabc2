package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct message. PriceCents > 0 locks the body until the
// recipient pays; Paid flips when the purchase transaction completes.
type Message struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SenderID    uint           `gorm:"not null;index" json:"sender_id"`
	RecipientID uint           `gorm:"not null;index" json:"recipient_id"`
	Body        string         `gorm:"type:text" json:"body"`
	MediaURL    string         `gorm:"size:512" json:"media_url"`
	PriceCents  int64          `gorm:"not null;default:0" json:"price_cents"`
	Paid        bool           `gorm:"not null;default:false" json:"paid"`
	ReadAt      *time.Time     `json:"read_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Sender    User `gorm:"foreignKey:SenderID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
