package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is creator content. PriceCents > 0 makes it pay-per-view; fans unlock
// it via a PostPurchase record.
type Post struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatorID  uint           `gorm:"not null;index" json:"creator_id"`
	Title      string         `gorm:"size:255" json:"title"`
	Body       string         `gorm:"type:text" json:"body"`
	MediaURL   string         `gorm:"size:512" json:"media_url"`
	PriceCents int64          `gorm:"not null;default:0" json:"price_cents"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Creator User `gorm:"foreignKey:CreatorID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// PostPurchase unlocks one paid post for one user. Deleted when the backing
// payment is refunded.
type PostPurchase struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	PostID        uint           `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID        uint           `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	TransactionID uint           `gorm:"not null;index" json:"transaction_id"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PostPurchase) TableName() string {
	return "post_purchases"
}
