package services

import (
	"context"
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AdminService - статистика и модерация пользователей
type AdminService interface {
	Stats(db *gorm.DB) (*dto.StatsResponse, error)

	ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.PaginatedResponse, error)
	GetUser(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminUserDetail, error)
	UpdateUserStatus(db *gorm.DB, adminID, userID string, status models.UserStatus, meta *dto.RequestMeta) (*models.User, error)
	FeatureUser(db *gorm.DB, adminID, userID string, meta *dto.RequestMeta) (*models.User, error)
	DeleteUser(db *gorm.DB, adminID, userID string, meta *dto.RequestMeta) error
	AdjustCredits(db *gorm.DB, adminID, userID string, req *dto.AdjustCreditsRequest, meta *dto.RequestMeta) (*dto.AdjustCreditsResponse, error)
}

type AdminServiceImpl struct {
	userRepo            repositories.UserRepository
	profileRepo         repositories.ProfileRepository
	adminRepo           repositories.AdminRepository
	matchRepo           repositories.MatchRepository
	swipeRepo           repositories.SwipeRepository
	reportRepo          repositories.ReportRepository
	documentRepo        repositories.DocumentRepository
	projectRepo         repositories.ProjectRepository
	documentService     DocumentService
	notificationService NotificationService
	auditService        AuditService
}

func NewAdminService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	adminRepo repositories.AdminRepository,
	matchRepo repositories.MatchRepository,
	swipeRepo repositories.SwipeRepository,
	reportRepo repositories.ReportRepository,
	documentRepo repositories.DocumentRepository,
	projectRepo repositories.ProjectRepository,
	documentService DocumentService,
	notificationService NotificationService,
	auditService AuditService,
) AdminService {
	return &AdminServiceImpl{
		userRepo:            userRepo,
		profileRepo:         profileRepo,
		adminRepo:           adminRepo,
		matchRepo:           matchRepo,
		swipeRepo:           swipeRepo,
		reportRepo:          reportRepo,
		documentRepo:        documentRepo,
		projectRepo:         projectRepo,
		documentService:     documentService,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

func (s *AdminServiceImpl) Stats(db *gorm.DB) (*dto.StatsResponse, error) {
	stats := &dto.StatsResponse{GeneratedAt: time.Now().UTC()}

	counters := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&stats.TotalUsers, func() (int64, error) { return s.userRepo.CountAll(db) }},
		{&stats.Professionals, func() (int64, error) { return s.userRepo.CountByType(db, models.UserTypeArtisan) }},
		{&stats.Particuliers, func() (int64, error) { return s.userRepo.CountByType(db, models.UserTypeParticulier) }},
		{&stats.Admins, func() (int64, error) { return s.adminRepo.CountAll(db) }},
		{&stats.Matches, func() (int64, error) { return s.matchRepo.CountAll(db) }},
		{&stats.Swipes, func() (int64, error) { return s.swipeRepo.CountAll(db) }},
		{&stats.Reports, func() (int64, error) { return s.reportRepo.CountAll(db) }},
		{&stats.PendingReports, func() (int64, error) { return s.reportRepo.CountByStatus(db, models.ReportStatusPending) }},
		{&stats.PendingDocuments, func() (int64, error) { return s.documentRepo.CountByStatus(db, models.DocumentStatusPending) }},
		{&stats.OpenProjects, func() (int64, error) { return s.projectRepo.CountOpen(db) }},
	}
	for _, c := range counters {
		n, err := c.fn()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		*c.dst = n
	}
	return stats, nil
}

func (s *AdminServiceImpl) ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.PaginatedResponse, error) {
	page, pageSize, _ := pageOffset(filter.Page, filter.PageSize)
	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Status:   models.UserStatus(filter.Status),
		UserType: models.UserType(filter.UserType),
		Search:   filter.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(users, total, page, pageSize), nil
}

func (s *AdminServiceImpl) GetUser(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminUserDetail, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	docs, err := s.documentService.ListByUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	swipes, err := s.swipeRepo.CountByActor(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AdminUserDetail{User: user, Documents: docs, Swipes: swipes}, nil
}

// UpdateUserStatus меняет статус. Ручная валидация артизана заодно
// подтверждает его профиль.
func (s *AdminServiceImpl) UpdateUserStatus(db *gorm.DB, adminID, userID string, status models.UserStatus, meta *dto.RequestMeta) (*models.User, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	previous := user.Status

	if previous != status {
		if err := s.userRepo.UpdateStatus(tx, userID, status); err != nil {
			return nil, handleRepoError(err)
		}
		user.Status = status
	}

	if status == models.UserStatusValidated && user.ArtisanProfile != nil &&
		user.ArtisanProfile.ValidationStatus != models.ValidationStatusValidated {
		if err := s.profileRepo.UpdateArtisanValidation(tx, userID, models.ValidationStatusValidated, ""); err != nil {
			return nil, handleRepoError(err)
		}
		user.ArtisanProfile.ValidationStatus = models.ValidationStatusValidated
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	if previous != status {
		logger.Info("user status changed", "user_id", userID, "from", previous, "to", status, "admin_id", adminID)
		s.auditService.Log(db, AuditEntry{
			UserID:  adminID,
			Action:  AuditUserStatusChanged,
			Details: map[string]interface{}{"user_id": userID, "from": previous, "to": status},
			Meta:    meta,
		})
	}
	return user, nil
}

func (s *AdminServiceImpl) FeatureUser(db *gorm.DB, adminID, userID string, meta *dto.RequestMeta) (*models.User, error) {
	if err := s.userRepo.SetFeatured(db, userID); err != nil {
		return nil, handleRepoError(err)
	}
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	s.auditService.Log(db, AuditEntry{
		UserID:  adminID,
		Action:  AuditUserFeatured,
		Details: map[string]interface{}{"user_id": userID},
		Meta:    meta,
	})
	return user, nil
}

func (s *AdminServiceImpl) DeleteUser(db *gorm.DB, adminID, userID string, meta *dto.RequestMeta) error {
	if err := s.userRepo.Delete(db, userID); err != nil {
		return handleRepoError(err)
	}
	logger.Info("user deleted", "user_id", userID, "admin_id", adminID)
	s.auditService.Log(db, AuditEntry{
		UserID:  adminID,
		Action:  AuditUserDeleted,
		Details: map[string]interface{}{"user_id": userID},
		Meta:    meta,
	})
	return nil
}

// AdjustCredits начисляет или списывает кредиты, баланс не уходит ниже нуля
func (s *AdminServiceImpl) AdjustCredits(db *gorm.DB, adminID, userID string, req *dto.AdjustCreditsRequest, meta *dto.RequestMeta) (*dto.AdjustCreditsResponse, error) {
	if req.Amount == 0 {
		return nil, apperrors.ValidationError(map[string]string{"amount": "amount must not be zero"})
	}

	credits, err := s.userRepo.AdjustCredits(db, userID, req.Amount)
	if err != nil {
		return nil, handleRepoError(err)
	}

	s.notificationService.Notify(db, userID, models.NotificationCreditsUpdated, "Crédits mis à jour", map[string]interface{}{
		"credits": credits,
		"delta":   req.Amount,
	})
	s.auditService.Log(db, AuditEntry{
		UserID:  adminID,
		Action:  AuditCreditsAdjusted,
		Details: map[string]interface{}{"user_id": userID, "amount": req.Amount, "reason": req.Reason, "balance": credits},
		Meta:    meta,
	})

	return &dto.AdjustCreditsResponse{UserID: userID, Credits: credits}, nil
}
