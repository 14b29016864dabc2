package database

import (
	"log"
	"os"

	"peachy/internal/domain"
	"peachy/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no user with that email exists yet.
func SeedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] admin hash failed: %v", err)
		return
	}
	admin := &models.User{
		Email:        email,
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[Seed] admin create failed: %v", err)
		return
	}
	log.Printf("[Seed] admin account created: %s", email)
}
