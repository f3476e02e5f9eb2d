package repositories

import (
	"errors"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	Create(db *gorm.DB, report *models.Report) error
	FindByID(db *gorm.DB, id string) (*models.Report, error)
	FindByStatus(db *gorm.DB, status models.ReportStatus, limit, offset int) ([]models.Report, int64, error)
	Update(db *gorm.DB, report *models.Report) error
	CountAll(db *gorm.DB) (int64, error)
	CountByStatus(db *gorm.DB, status models.ReportStatus) (int64, error)
}

type ReportRepositoryImpl struct{}

func NewReportRepository() ReportRepository {
	return &ReportRepositoryImpl{}
}

func (r *ReportRepositoryImpl) Create(db *gorm.DB, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	return db.Create(report).Error
}

func (r *ReportRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Report, error) {
	var report models.Report
	if err := db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) FindByStatus(db *gorm.DB, status models.ReportStatus, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	query := db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error
	return reports, total, err
}

func (r *ReportRepositoryImpl) Update(db *gorm.DB, report *models.Report) error {
	return db.Save(report).Error
}

func (r *ReportRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Report{}).Count(&count).Error
	return count, err
}

func (r *ReportRepositoryImpl) CountByStatus(db *gorm.DB, status models.ReportStatus) (int64, error) {
	var count int64
	err := db.Model(&models.Report{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
