package services

import (
	"time"

	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReportService interface {
	Create(db *gorm.DB, reporterID string, req *dto.CreateReportRequest) (*models.Report, error)
	List(db *gorm.DB, filter *dto.ReportFilter) (*dto.PaginatedResponse, error)
	Resolve(db *gorm.DB, adminID, reportID string, req *dto.ResolveReportRequest, meta *dto.RequestMeta) (*models.Report, error)
}

type ReportServiceImpl struct {
	reportRepo   repositories.ReportRepository
	userRepo     repositories.UserRepository
	auditService AuditService
}

func NewReportService(reportRepo repositories.ReportRepository, userRepo repositories.UserRepository, auditService AuditService) ReportService {
	return &ReportServiceImpl{
		reportRepo:   reportRepo,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

func (s *ReportServiceImpl) Create(db *gorm.DB, reporterID string, req *dto.CreateReportRequest) (*models.Report, error) {
	if reporterID == req.ReportedUserID {
		return nil, apperrors.ErrInvalidOperation("report", "You cannot report yourself")
	}
	if _, err := s.userRepo.FindByID(db, req.ReportedUserID); err != nil {
		return nil, handleRepoError(err)
	}

	report := &models.Report{
		ReporterID:     reporterID,
		ReportedUserID: req.ReportedUserID,
		Reason:         req.Reason,
		Details:        req.Details,
		Status:         models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(db, report); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return report, nil
}

func (s *ReportServiceImpl) List(db *gorm.DB, filter *dto.ReportFilter) (*dto.PaginatedResponse, error) {
	page, pageSize, offset := pageOffset(filter.Page, filter.PageSize)
	reports, total, err := s.reportRepo.FindByStatus(db, models.ReportStatus(filter.Status), pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(reports, total, page, pageSize), nil
}

func (s *ReportServiceImpl) Resolve(db *gorm.DB, adminID, reportID string, req *dto.ResolveReportRequest, meta *dto.RequestMeta) (*models.Report, error) {
	report, err := s.reportRepo.FindByID(db, reportID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	now := time.Now()
	report.Status = models.ReportStatus(req.Status)
	report.ResolutionNote = req.Note
	report.ResolvedBy = &adminID
	report.ResolvedAt = &now

	if err := s.reportRepo.Update(db, report); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Log(db, AuditEntry{
		UserID:  adminID,
		Action:  AuditReportResolved,
		Details: map[string]interface{}{"report_id": report.ID, "status": report.Status},
		Meta:    meta,
	})
	return report, nil
}
