package repository

import (
	"peachy/internal/domain"
	"peachy/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var m models.Message
	if err := r.db.First(&m, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) Update(m *models.Message) error {
	return r.db.Save(m).Error
}

// ListConversation returns messages between two users, newest first.
func (r *MessageRepository) ListConversation(a, b uint, limit int) ([]models.Message, error) {
	var out []models.Message
	err := r.db.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		a, b, b, a,
	).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
