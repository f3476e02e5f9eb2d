package repositories

import (
	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

type AuditLogFilter struct {
	Action string
	UserID string
	Limit  int
}

type AuditLogRepository interface {
	Create(db *gorm.DB, entry *models.AuditLog) error
	Find(db *gorm.DB, filter AuditLogFilter) ([]models.AuditLog, error)
}

type AuditLogRepositoryImpl struct{}

func NewAuditLogRepository() AuditLogRepository {
	return &AuditLogRepositoryImpl{}
}

func (r *AuditLogRepositoryImpl) Create(db *gorm.DB, entry *models.AuditLog) error {
	return db.Create(entry).Error
}

// Find - свежие записи первыми
func (r *AuditLogRepositoryImpl) Find(db *gorm.DB, filter AuditLogFilter) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := db.Model(&models.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
