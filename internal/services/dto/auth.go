package dto

import "swipetonpro_backend/internal/models"

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"omitempty,max=100"`
	UserType    string `json:"user_type" validate:"required,is-user-type"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	CompanyName string `json:"company_name" validate:"omitempty,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse - ответ login/register
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"` // секунды
	User        *models.User `json:"user"`
}

// RequestMeta - данные запроса для аудита
type RequestMeta struct {
	IP        string
	UserAgent string
	Endpoint  string
	Method    string
}
