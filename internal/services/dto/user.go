package dto

import "swipetonpro_backend/internal/models"

type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
}

// PublicUser - то, что видит другая сторона (без email и кредитов)
type PublicUser struct {
	ID          string          `json:"id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	UserType    models.UserType `json:"user_type"`
	IsFeatured  bool            `json:"is_featured"`
	City        string          `json:"city,omitempty"`
	CompanyName string          `json:"company_name,omitempty"`
	Professions []string        `json:"professions,omitempty"`
	Validated   bool            `json:"validated"`
}

// NewPublicUser собирает публичную карточку; фамилия сокращается до инициала
func NewPublicUser(u *models.User) PublicUser {
	p := PublicUser{
		ID:         u.ID,
		FirstName:  u.FirstName,
		UserType:   u.UserType,
		IsFeatured: u.IsFeatured,
		Validated:  u.Status == models.UserStatusValidated,
	}
	if u.LastName != "" {
		p.LastName = string([]rune(u.LastName)[:1]) + "."
	}
	if u.ArtisanProfile != nil {
		p.City = u.ArtisanProfile.City
		p.CompanyName = u.ArtisanProfile.CompanyName
		p.Professions = u.ArtisanProfile.Professions
	} else if u.ParticulierProfile != nil {
		p.City = u.ParticulierProfile.City
	}
	return p
}

type CreateReportRequest struct {
	ReportedUserID string `json:"reported_user_id" validate:"required"`
	Reason         string `json:"reason" validate:"required,max=200"`
	Details        string `json:"details" validate:"omitempty,max=2000"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	HasMore    bool        `json:"has_more"`
}

func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) *PaginatedResponse {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
