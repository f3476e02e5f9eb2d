package dto

import "swipetonpro_backend/internal/models"

type CreateProjectRequest struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Description      string   `json:"description" validate:"omitempty,max=5000"`
	Professions      []string `json:"professions" validate:"required,min=1,max=10,dive,is-profession"`
	BudgetMin        *float64 `json:"budget_min" validate:"omitempty,gte=0"`
	BudgetMax        *float64 `json:"budget_max" validate:"omitempty,gte=0"`
	City             string   `json:"city" validate:"omitempty,max=100"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Urgency          string   `json:"urgency" validate:"omitempty,oneof=low normal high"`
	TechnicalDetails string   `json:"technical_details" validate:"omitempty,max=5000"`
}

// ProjectView - проект плюс совпавшие с артизаном профессии
type ProjectView struct {
	models.Project
	MatchingProfessions []string `json:"matching_professions,omitempty"`
}
