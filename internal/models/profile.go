package models

import (
	"time"

	"gorm.io/datatypes"
)

type CompanyStatus string

const (
	CompanyStatusMicroEntreprise  CompanyStatus = "micro_entreprise"
	CompanyStatusSARL             CompanyStatus = "sarl"
	CompanyStatusSAS              CompanyStatus = "sas"
	CompanyStatusEURL             CompanyStatus = "eurl"
	CompanyStatusAutoEntrepreneur CompanyStatus = "auto_entrepreneur"
	CompanyStatusAssociation      CompanyStatus = "association"
	CompanyStatusOther            CompanyStatus = "other"
)

type ArtisanProfile struct {
	BaseModel
	UserID          string                      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CompanyName     string                      `json:"company_name"`
	CompanyStatus   CompanyStatus               `gorm:"type:varchar(30)" json:"company_status,omitempty"`
	Siret           string                      `json:"siret,omitempty"`
	Professions     datatypes.JSONSlice[string] `json:"professions"`
	HourlyRate      *float64                    `json:"hourly_rate,omitempty"`
	ExperienceYears int                         `json:"experience_years"`
	Description     string                      `json:"description"`
	City            string                      `gorm:"index" json:"city"`
	Latitude        *float64                    `json:"latitude,omitempty"`
	Longitude       *float64                    `json:"longitude,omitempty"`
	RadiusKm        int                         `json:"radius_km"`
	Available       bool                        `json:"available"`
	Certifications  datatypes.JSONSlice[string] `json:"certifications"`
	PortfolioImages datatypes.JSONSlice[string] `json:"portfolio_images"`

	ValidationStatus ValidationStatus `gorm:"type:varchar(20);not null;index" json:"validation_status"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`
	BoostedUntil     *time.Time       `json:"boosted_until,omitempty"`
}

// IsBoosted - активен ли платный буст на момент now
func (p *ArtisanProfile) IsBoosted(now time.Time) bool {
	return p.BoostedUntil != nil && p.BoostedUntil.After(now)
}

type ParticulierProfile struct {
	BaseModel
	UserID          string   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Address         string   `json:"address"`
	City            string   `gorm:"index" json:"city"`
	PostalCode      string   `json:"postal_code"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	PropertyType    string   `json:"property_type,omitempty"` // house, apartment, commercial, other
	PropertySurface *float64 `json:"property_surface,omitempty"`
	ProjectDetails  string   `json:"project_details,omitempty"`
}
