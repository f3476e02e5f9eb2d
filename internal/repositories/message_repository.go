package repositories

import (
	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(db *gorm.DB, message *models.Message) error
	FindByMatch(db *gorm.DB, matchID string, limit, offset int) ([]models.Message, error)
	MarkRead(db *gorm.DB, matchID, readerID string) (int64, error)
	CountUnread(db *gorm.DB, matchID, readerID string) (int64, error)
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *models.Message) error {
	if message.MessageType == "" {
		message.MessageType = models.MessageTypeText
	}
	return db.Create(message).Error
}

// FindByMatch - история в хронологическом порядке
func (r *MessageRepositoryImpl) FindByMatch(db *gorm.DB, matchID string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	query := db.Where("match_id = ?", matchID).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&messages).Error
	return messages, err
}

// MarkRead помечает прочитанными сообщения собеседника
func (r *MessageRepositoryImpl) MarkRead(db *gorm.DB, matchID, readerID string) (int64, error) {
	result := db.Model(&models.Message{}).
		Where("match_id = ? AND sender_id <> ? AND is_read = ?", matchID, readerID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *MessageRepositoryImpl) CountUnread(db *gorm.DB, matchID, readerID string) (int64, error) {
	var count int64
	err := db.Model(&models.Message{}).
		Where("match_id = ? AND sender_id <> ? AND is_read = ?", matchID, readerID, false).
		Count(&count).Error
	return count, err
}
