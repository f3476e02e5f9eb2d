package dto

import (
	"time"

	"swipetonpro_backend/internal/models"
)

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminAuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	Admin       *models.Admin `json:"admin"`
}

type StatsResponse struct {
	TotalUsers       int64     `json:"total_users"`
	Professionals    int64     `json:"professionals"`
	Particuliers     int64     `json:"particuliers"`
	Admins           int64     `json:"admins"`
	Matches          int64     `json:"matches"`
	Swipes           int64     `json:"swipes"`
	Reports          int64     `json:"reports"`
	PendingReports   int64     `json:"pending_reports"`
	PendingDocuments int64     `json:"pending_documents"`
	OpenProjects     int64     `json:"open_projects"`
	GeneratedAt      time.Time `json:"generated_at"`
}

type AdminUserFilter struct {
	Page     int    `form:"page" validate:"omitempty,gte=1"`
	PageSize int    `form:"page_size" validate:"omitempty,gte=1,lte=100"`
	Status   string `form:"status" validate:"omitempty,is-user-status"`
	UserType string `form:"user_type" validate:"omitempty,is-user-type"`
	Search   string `form:"search" validate:"omitempty,max=100"`
}

type AdminUserDetail struct {
	User      *models.User      `json:"user"`
	Documents []models.Document `json:"documents"`
	Swipes    int64             `json:"swipes"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,is-user-status"`
}

type AdjustCreditsRequest struct {
	Amount int    `json:"amount" validate:"required,ne=0,min=-100000,max=100000"`
	Reason string `json:"reason" validate:"omitempty,max=300"`
}

type AdjustCreditsResponse struct {
	UserID  string `json:"user_id"`
	Credits int    `json:"credits"`
}

type CreateAdminRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name" validate:"omitempty,max=100"`
	Role        string   `json:"role" validate:"required,is-admin-role"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,is-admin-permission"`
}

type InvitationResponse struct {
	Invitation *models.Invitation `json:"invitation"`
	Admin      *models.Admin      `json:"admin"`
	// Token отдаем создателю, чтобы передать его вручную, если почта выключена
	Token string `json:"token"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

type UpdatePermissionsRequest struct {
	Role        string   `json:"role" validate:"omitempty,is-admin-role"`
	Permissions []string `json:"permissions" validate:"dive,is-admin-permission"`
}

type ResolveReportRequest struct {
	Status string `json:"status" validate:"required,is-report-status"`
	Note   string `json:"note" validate:"omitempty,max=2000"`
}

type ReportFilter struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending resolved dismissed"`
	Page     int    `form:"page" validate:"omitempty,gte=1"`
	PageSize int    `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type LogsFilter struct {
	Action string `form:"action" validate:"omitempty,max=100"`
	UserID string `form:"user_id" validate:"omitempty,max=64"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=500"`
}
