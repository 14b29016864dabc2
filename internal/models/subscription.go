package models

import (
	"time"

	"gorm.io/gorm"
)

type Subscription struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	FanID         uint       `gorm:"not null;index:idx_fan_creator" json:"fan_id"`
	CreatorID     uint       `gorm:"not null;index:idx_fan_creator" json:"creator_id"`
	PriceCents    int64      `gorm:"not null" json:"price_cents"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	PeriodDays    int        `gorm:"not null;default:30" json:"period_days"`
	NextBillingAt *time.Time `json:"next_billing_at"`
	EndsAt        *time.Time `json:"ends_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Fan     User `gorm:"foreignKey:FanID" json:"-"`
	Creator User `gorm:"foreignKey:CreatorID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
