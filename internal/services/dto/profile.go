package dto

// ProfileRequest - общее тело для upsert профиля. Какие поля используются,
// решает user_type вызывающего.
type ProfileRequest struct {
	// artisan
	CompanyName     *string  `json:"company_name" validate:"omitempty,max=200"`
	CompanyStatus   *string  `json:"company_status" validate:"omitempty,oneof=micro_entreprise sarl sas eurl auto_entrepreneur association other"`
	Siret           *string  `json:"siret" validate:"omitempty,len=14,numeric"`
	Professions     []string `json:"professions" validate:"omitempty,max=10,dive,is-profession"`
	HourlyRate      *float64 `json:"hourly_rate" validate:"omitempty,gte=0,lte=10000"`
	ExperienceYears *int     `json:"experience_years" validate:"omitempty,gte=0,lte=80"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	RadiusKm        *int     `json:"radius_km" validate:"omitempty,gte=0,lte=500"`
	Available       *bool    `json:"available"`
	Certifications  []string `json:"certifications" validate:"omitempty,max=20,dive,max=200"`

	// particulier
	Address         *string  `json:"address" validate:"omitempty,max=300"`
	PostalCode      *string  `json:"postal_code" validate:"omitempty,max=10"`
	PropertyType    *string  `json:"property_type" validate:"omitempty,oneof=house apartment commercial other"`
	PropertySurface *float64 `json:"property_surface" validate:"omitempty,gte=0"`
	ProjectDetails  *string  `json:"project_details" validate:"omitempty,max=5000"`

	// общие
	City      *string  `json:"city" validate:"omitempty,max=100"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type ArtisanSearchRequest struct {
	Profession string `form:"profession" json:"profession" validate:"omitempty,is-profession"`
	City       string `form:"city" json:"city" validate:"omitempty,max=100"`
	Page       int    `form:"page" json:"page" validate:"omitempty,gte=1"`
	PageSize   int    `form:"page_size" json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type PortfolioResponse struct {
	Keys []string `json:"keys"`
	URLs []string `json:"urls"`
}
