package models

import (
	"time"

	"gorm.io/datatypes"
)

type Admin struct {
	BaseModel
	Email        string                      `gorm:"uniqueIndex;not null" json:"email"`
	Name         string                      `json:"name"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Role         AdminRole                   `gorm:"type:varchar(20);not null" json:"role"`
	Permissions  datatypes.JSONSlice[string] `json:"permissions"`
	IsActive     bool                        `json:"is_active"`
	LastLogin    *time.Time                  `json:"last_login,omitempty"`
}

// HasPermission: super_admin проходит любую проверку
func (a *Admin) HasPermission(permission string) bool {
	if a.Role == AdminRoleSuperAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type Invitation struct {
	BaseModel
	Email       string                      `gorm:"not null;index" json:"email"`
	Role        AdminRole                   `gorm:"type:varchar(20);not null" json:"role"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`
	Token       string                      `gorm:"uniqueIndex;not null" json:"-"`
	InvitedBy   string                      `gorm:"type:uuid" json:"invited_by"`
	ExpiresAt   time.Time                   `json:"expires_at"`
	AcceptedAt  *time.Time                  `json:"accepted_at,omitempty"`
}

func (i *Invitation) IsUsable(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}

type Report struct {
	BaseModel
	ReporterID     string       `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedUserID string       `gorm:"type:uuid;not null;index" json:"reported_user_id"`
	Reason         string       `gorm:"not null" json:"reason"`
	Details        string       `json:"details,omitempty"`
	Status         ReportStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ResolvedBy     *string      `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolutionNote string       `json:"resolution_note,omitempty"`
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
}

// AuditLog - журнал действий (таблица logs)
type AuditLog struct {
	BaseModel
	UserID     *string           `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string            `gorm:"not null;index" json:"action"`
	Details    datatypes.JSONMap `json:"details"`
	IP         string            `json:"ip,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	Endpoint   string            `json:"endpoint,omitempty"`
	Method     string            `json:"method,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
}

func (AuditLog) TableName() string {
	return "logs"
}
