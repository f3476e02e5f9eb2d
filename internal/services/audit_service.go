package services

import (
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Действия аудита
const (
	AuditLoginSuccess      = "login_success"
	AuditLoginFailed       = "login_failed"
	AuditLoginBlocked      = "login_blocked"
	AuditUserStatusChanged = "user_status_changed"
	AuditUserFeatured      = "user_featured"
	AuditUserDeleted       = "user_deleted"
	AuditCreditsAdjusted   = "credits_adjusted"
	AuditDocumentDecided   = "document_decided"
	AuditReportResolved    = "report_resolved"
	AuditAdminInvited      = "admin_invited"
	AuditAdminActivated    = "admin_activated"
	AuditAdminPermissions  = "admin_permissions_updated"
	AuditAdminDeleted      = "admin_deleted"
	AuditConfigUpdated     = "config_updated"
	AuditCheckoutCreated   = "checkout_created"
	AuditPaymentApplied    = "payment_applied"
	AuditSwipe             = "swipe"
	AuditMatchCreated      = "match_created"
)

type AuditEntry struct {
	UserID     string
	Action     string
	Details    map[string]interface{}
	Meta       *dto.RequestMeta
	StatusCode int
}

type AuditService interface {
	// Log не возвращает ошибку: потеря строки аудита не отменяет операцию
	Log(db *gorm.DB, entry AuditEntry)
	List(db *gorm.DB, filter *dto.LogsFilter) ([]models.AuditLog, error)
}

type AuditServiceImpl struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditService(auditRepo repositories.AuditLogRepository) AuditService {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

func (s *AuditServiceImpl) Log(db *gorm.DB, entry AuditEntry) {
	row := &models.AuditLog{
		Action:     entry.Action,
		Details:    datatypes.JSONMap(entry.Details),
		StatusCode: entry.StatusCode,
	}
	if entry.UserID != "" {
		userID := entry.UserID
		row.UserID = &userID
	}
	if entry.Meta != nil {
		row.IP = entry.Meta.IP
		row.UserAgent = entry.Meta.UserAgent
		row.Endpoint = entry.Meta.Endpoint
		row.Method = entry.Meta.Method
	}

	if err := s.auditRepo.Create(db, row); err != nil {
		logger.Error("failed to write audit log", "action", entry.Action, "error", err)
	}
}

func (s *AuditServiceImpl) List(db *gorm.DB, filter *dto.LogsFilter) ([]models.AuditLog, error) {
	logs, err := s.auditRepo.Find(db, repositories.AuditLogFilter{
		Action: filter.Action,
		UserID: filter.UserID,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return logs, nil
}
