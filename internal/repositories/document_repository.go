package repositories

import (
	"errors"
	"time"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(db *gorm.DB, doc *models.Document) error
	FindByID(db *gorm.DB, id string) (*models.Document, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Document, error)
	FindByStatus(db *gorm.DB, status models.DocumentStatus, limit, offset int) ([]models.Document, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.DocumentStatus, comment, adminID string, at time.Time) error
	CountByStatus(db *gorm.DB, status models.DocumentStatus) (int64, error)
}

type DocumentRepositoryImpl struct{}

func NewDocumentRepository() DocumentRepository {
	return &DocumentRepositoryImpl{}
}

func (r *DocumentRepositoryImpl) Create(db *gorm.DB, doc *models.Document) error {
	if doc.Status == "" {
		doc.Status = models.DocumentStatusPending
	}
	return db.Create(doc).Error
}

func (r *DocumentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Document, error) {
	var docs []models.Document
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// FindByStatus: пустой status - все документы
func (r *DocumentRepositoryImpl) FindByStatus(db *gorm.DB, status models.DocumentStatus, limit, offset int) ([]models.Document, int64, error) {
	var docs []models.Document
	query := db.Model(&models.Document{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&docs).Error
	return docs, total, err
}

func (r *DocumentRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.DocumentStatus, comment, adminID string, at time.Time) error {
	result := db.Model(&models.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"admin_comment": comment,
			"validated_by":  adminID,
			"validated_at":  at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) CountByStatus(db *gorm.DB, status models.DocumentStatus) (int64, error) {
	var count int64
	err := db.Model(&models.Document{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
