package dto

import (
	"time"

	"swipetonpro_backend/internal/models"
)

type SwipeRequest struct {
	TargetID string `json:"target_id" validate:"required,max=64"`
	Action   string `json:"action" validate:"required,is-swipe-action"`
}

type SwipeResponse struct {
	Swipe            *models.Swipe `json:"swipe"`
	IsMatch          bool          `json:"is_match"`
	MatchID          *string       `json:"match_id,omitempty"`
	CreditsRemaining int           `json:"credits_remaining"`
	Unlimited        bool          `json:"unlimited"`
}

type CandidatesRequest struct {
	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=50"`
}

// Candidate - карточка в ленте свайпов
type Candidate struct {
	User    PublicUser      `json:"user"`
	Score   float64         `json:"score"`
	Reasons []string        `json:"reasons"`
	Project *models.Project `json:"project,omitempty"`
	Boosted bool            `json:"boosted"`
}

type BoostResponse struct {
	BoostedUntil     time.Time `json:"boosted_until"`
	Cost             int       `json:"cost"`
	CreditsRemaining int       `json:"credits_remaining"`
}
