package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/metrics"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/ratelimit"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AdminAuthService - вход в админку на отдельном JWT
type AdminAuthService interface {
	Login(ctx context.Context, db *gorm.DB, req *dto.AdminLoginRequest, meta *dto.RequestMeta) (*dto.AdminAuthResponse, error)
	// Authenticate проверяет admin-токен и грузит активного админа
	Authenticate(db *gorm.DB, token string) (*models.Admin, error)
}

type AdminAuthServiceImpl struct {
	adminRepo    repositories.AdminRepository
	tokens       *auth.TokenManager
	limiter      *ratelimit.LoginLimiter
	auditService AuditService
}

func NewAdminAuthService(
	adminRepo repositories.AdminRepository,
	tokens *auth.TokenManager,
	limiter *ratelimit.LoginLimiter,
	auditService AuditService,
) AdminAuthService {
	return &AdminAuthServiceImpl{
		adminRepo:    adminRepo,
		tokens:       tokens,
		limiter:      limiter,
		auditService: auditService,
	}
}

func (s *AdminAuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.AdminLoginRequest, meta *dto.RequestMeta) (*dto.AdminAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if s.limiter != nil {
		if err := limiterError(ctx, s.limiter, ratelimit.ScopeAdmin, email); err != nil {
			metrics.RecordLoginAttempt(ratelimit.ScopeAdmin, "blocked")
			s.auditService.Log(db, AuditEntry{
				Action:     AuditLoginBlocked,
				Details:    map[string]interface{}{"email": email},
				Meta:       meta,
				StatusCode: 429,
			})
			return nil, err
		}
	}

	admin, err := s.adminRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			s.failure(ctx, db, "", email, meta)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, admin.PasswordHash) {
		s.failure(ctx, db, admin.ID, email, meta)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !admin.IsActive {
		metrics.RecordLoginAttempt(ratelimit.ScopeAdmin, "inactive")
		return nil, apperrors.ErrAdminInactive
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, ratelimit.ScopeAdmin, email); err != nil {
			logger.CtxWarn(ctx, "failed to reset admin login attempts", "error", err)
		}
	}

	now := time.Now()
	if err := s.adminRepo.UpdateLastLogin(db, admin.ID, now); err != nil {
		logger.CtxWarn(ctx, "failed to update admin last login", "admin_id", admin.ID, "error", err)
	}
	admin.LastLogin = &now

	token, err := s.tokens.GenerateToken(admin.ID, string(admin.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordLoginAttempt(ratelimit.ScopeAdmin, "success")
	s.auditService.Log(db, AuditEntry{
		UserID:     admin.ID,
		Action:     AuditLoginSuccess,
		Details:    map[string]interface{}{"email": email, "role": admin.Role},
		Meta:       meta,
		StatusCode: 200,
	})

	return &dto.AdminAuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		Admin:       admin,
	}, nil
}

func (s *AdminAuthServiceImpl) failure(ctx context.Context, db *gorm.DB, adminID, email string, meta *dto.RequestMeta) {
	metrics.RecordLoginAttempt(ratelimit.ScopeAdmin, "failed")

	attempts := int64(0)
	if s.limiter != nil {
		n, err := s.limiter.RegisterFailure(ctx, ratelimit.ScopeAdmin, email)
		if err != nil {
			logger.CtxWarn(ctx, "failed to register admin login failure", "error", err)
		}
		attempts = n
	}

	s.auditService.Log(db, AuditEntry{
		UserID:     adminID,
		Action:     AuditLoginFailed,
		Details:    map[string]interface{}{"email": email, "attempts": attempts},
		Meta:       meta,
		StatusCode: 401,
	})
}

func (s *AdminAuthServiceImpl) Authenticate(db *gorm.DB, token string) (*models.Admin, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	admin, err := s.adminRepo.FindByID(db, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !admin.IsActive {
		return nil, apperrors.ErrInvalidToken
	}
	return admin, nil
}
