package services

import (
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ConfigService - настройки цен, которые меняет super_admin
type ConfigService interface {
	GetCreditConfig(db *gorm.DB) (*models.CreditConfig, error)
	UpdateCreditConfig(db *gorm.DB, adminID string, req *dto.CreditConfigRequest, meta *dto.RequestMeta) (*models.CreditConfig, error)
	GetBoostConfig(db *gorm.DB, artisanID string) (*models.BoostConfig, error)
	UpdateBoostConfig(db *gorm.DB, adminID string, req *dto.BoostConfigRequest, meta *dto.RequestMeta) (*models.BoostConfig, error)
}

type ConfigServiceImpl struct {
	configRepo   repositories.ConfigRepository
	userRepo     repositories.UserRepository
	auditService AuditService
}

func NewConfigService(configRepo repositories.ConfigRepository, userRepo repositories.UserRepository, auditService AuditService) ConfigService {
	return &ConfigServiceImpl{
		configRepo:   configRepo,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

func (s *ConfigServiceImpl) GetCreditConfig(db *gorm.DB) (*models.CreditConfig, error) {
	cfg, err := s.configRepo.GetCreditConfig(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return cfg, nil
}

func (s *ConfigServiceImpl) UpdateCreditConfig(db *gorm.DB, adminID string, req *dto.CreditConfigRequest, meta *dto.RequestMeta) (*models.CreditConfig, error) {
	label := req.Label
	if label == "" {
		label = models.DefaultCreditLabel
	}
	cfg := &models.CreditConfig{UnitPrice: req.UnitPrice, Label: label}
	if err := s.configRepo.SaveCreditConfig(db, cfg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Log(db, AuditEntry{
		UserID:  adminID,
		Action:  AuditConfigUpdated,
		Details: map[string]interface{}{"config": "credit", "unit_price": cfg.UnitPrice},
		Meta:    meta,
	})
	return s.GetCreditConfig(db)
}

func (s *ConfigServiceImpl) GetBoostConfig(db *gorm.DB, artisanID string) (*models.BoostConfig, error) {
	cfg, err := s.configRepo.GetBoostConfig(db, artisanID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return cfg, nil
}

func (s *ConfigServiceImpl) UpdateBoostConfig(db *gorm.DB, adminID string, req *dto.BoostConfigRequest, meta *dto.RequestMeta) (*models.BoostConfig, error) {
	var artisanID *string
	if req.ArtisanID != nil && *req.ArtisanID != "" {
		user, err := s.userRepo.FindByID(db, *req.ArtisanID)
		if err != nil {
			return nil, handleRepoError(err)
		}
		if !user.IsArtisan() {
			return nil, apperrors.ErrInvalidUserType
		}
		artisanID = &user.ID
	}

	cfg := &models.BoostConfig{
		ArtisanID:     artisanID,
		Cost:          req.Cost,
		Enabled:       req.Enabled,
		DurationHours: req.DurationHours,
	}
	if err := s.configRepo.SaveBoostConfig(db, cfg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	details := map[string]interface{}{"config": "boost", "cost": cfg.Cost, "enabled": cfg.Enabled}
	if artisanID != nil {
		details["artisan_id"] = *artisanID
	}
	s.auditService.Log(db, AuditEntry{UserID: adminID, Action: AuditConfigUpdated, Details: details, Meta: meta})

	if artisanID != nil {
		return s.GetBoostConfig(db, *artisanID)
	}
	return s.GetBoostConfig(db, "")
}
