package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationMatchCreated   = "match_created"
	NotificationNewMessage     = "new_message"
	NotificationDocumentStatus = "document_status"
	NotificationCreditsUpdated = "credits_updated"
	NotificationChatUnlocked   = "chat_unlocked"
)

// Notification сохраняется, чтобы офлайн-пользователь увидел событие позже
type Notification struct {
	BaseModel
	UserID string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Type   string            `gorm:"not null" json:"type"`
	Title  string            `gorm:"not null" json:"title"`
	Data   datatypes.JSONMap `json:"data"`
	IsRead bool              `json:"is_read"`
	ReadAt *time.Time        `json:"read_at,omitempty"`
}
