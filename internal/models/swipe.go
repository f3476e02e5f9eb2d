package models

import "time"

// Swipe уникален по паре (actor, target)
type Swipe struct {
	BaseModel
	ActorID  string      `gorm:"type:uuid;not null;uniqueIndex:idx_swipe_pair" json:"actor_id"`
	TargetID string      `gorm:"type:uuid;not null;uniqueIndex:idx_swipe_pair;index" json:"target_id"`
	Action   SwipeAction `gorm:"type:varchar(10);not null" json:"action"`
	Boosted  bool        `json:"boosted"`
}

// Match хранит пару в упорядоченном виде: User1ID < User2ID
type Match struct {
	BaseModel
	User1ID        string     `gorm:"type:uuid;not null;uniqueIndex:idx_match_pair;index" json:"user1_id"`
	User2ID        string     `gorm:"type:uuid;not null;uniqueIndex:idx_match_pair;index" json:"user2_id"`
	IsChatUnlocked bool       `json:"is_chat_unlocked"`
	UnlockedBy     *string    `gorm:"type:uuid" json:"unlocked_by,omitempty"`
	UnlockedAt     *time.Time `json:"unlocked_at,omitempty"`
}

// OrderedPair возвращает id в каноническом порядке для Match
func OrderedPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func (m *Match) HasParticipant(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) OtherParticipant(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

type Message struct {
	BaseModel
	MatchID     string      `gorm:"type:uuid;not null;index" json:"match_id"`
	SenderID    string      `gorm:"type:uuid;not null" json:"sender_id"`
	Content     string      `gorm:"not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(20);not null" json:"message_type"`
	QuoteAmount *float64    `json:"quote_amount,omitempty"`
	MeetingDate *time.Time  `json:"meeting_date,omitempty"`
	IsRead      bool        `json:"is_read"`
}
