package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Email            string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username         string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash     string         `gorm:"size:255;not null" json:"-"`
	DisplayName      string         `gorm:"size:128" json:"display_name"`
	Role             string         `gorm:"size:20;not null;default:'FAN'" json:"role"`
	StripeCustomerID string         `gorm:"size:64" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
