package models

import "gorm.io/datatypes"

type Project struct {
	BaseModel
	OwnerID          string                      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title            string                      `gorm:"not null" json:"title"`
	Description      string                      `json:"description"`
	Professions      datatypes.JSONSlice[string] `json:"professions"`
	BudgetMin        *float64                    `json:"budget_min,omitempty"`
	BudgetMax        *float64                    `json:"budget_max,omitempty"`
	City             string                      `gorm:"index" json:"city"`
	Latitude         *float64                    `json:"latitude,omitempty"`
	Longitude        *float64                    `json:"longitude,omitempty"`
	Urgency          string                      `json:"urgency"` // low, normal, high
	TechnicalDetails string                      `json:"technical_details,omitempty"`
	Status           ProjectStatus               `gorm:"type:varchar(20);not null;index" json:"status"`
}
