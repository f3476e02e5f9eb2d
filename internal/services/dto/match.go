package dto

import (
	"time"

	"swipetonpro_backend/internal/models"
)

type MatchResponse struct {
	ID             string     `json:"id"`
	OtherUser      PublicUser `json:"other_user"`
	IsChatUnlocked bool       `json:"is_chat_unlocked"`
	UnlockedAt     *time.Time `json:"unlocked_at,omitempty"`
	UnreadCount    int64      `json:"unread_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

type UnlockResponse struct {
	Match            *models.Match `json:"match"`
	AlreadyUnlocked  bool          `json:"already_unlocked"`
	CreditsSpent     int           `json:"credits_spent"`
	CreditsRemaining int           `json:"credits_remaining"`
}

type SendMessageRequest struct {
	MatchID     string     `json:"match_id" validate:"required"`
	Content     string     `json:"content" validate:"required,max=5000"`
	MessageType string     `json:"message_type" validate:"omitempty,is-message-type"`
	QuoteAmount *float64   `json:"quote_amount" validate:"omitempty,gte=0"`
	MeetingDate *time.Time `json:"meeting_date"`
}
