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

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(db *gorm.DB, userID string) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	tokens      *auth.TokenManager
	limiter     *ratelimit.LoginLimiter
	mailService MailService
}

// NewAuthService - limiter может быть nil (без Redis логин не ограничивается)
func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	tokens *auth.TokenManager,
	limiter *ratelimit.LoginLimiter,
	mailService MailService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		limiter:     limiter,
		mailService: mailService,
	}
}

// Register - регистрация нового пользователя вместе с пустым профилем
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		UserType:     models.UserType(req.UserType),
		Status:       models.UserStatusGhost,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleRepoError(err)
	}

	// Профиль создается сразу, чтобы дальше работать только через update
	if user.IsArtisan() {
		profile := &models.ArtisanProfile{
			UserID:           user.ID,
			CompanyName:      req.CompanyName,
			ValidationStatus: models.ValidationStatusPending,
			Available:        true,
		}
		if err := s.profileRepo.CreateArtisanProfile(tx, profile); err != nil {
			return nil, handleRepoError(err)
		}
		user.ArtisanProfile = profile
	} else {
		profile := &models.ParticulierProfile{UserID: user.ID}
		if err := s.profileRepo.CreateParticulierProfile(tx, profile); err != nil {
			return nil, handleRepoError(err)
		}
		user.ParticulierProfile = profile
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID, "user_type", user.UserType)
	s.mailService.SendWelcome(user)

	return s.issue(user)
}

// Login - вход по email/паролю с ограничением попыток
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkLimiter(ctx, email); err != nil {
		metrics.RecordLoginAttempt(ratelimit.ScopeUser, "blocked")
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.registerFailure(ctx, email)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.registerFailure(ctx, email)
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		metrics.RecordLoginAttempt(ratelimit.ScopeUser, "suspended")
		return nil, apperrors.ErrUserSuspended
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, ratelimit.ScopeUser, email); err != nil {
			logger.CtxWarn(ctx, "failed to reset login attempts", "error", err)
		}
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(db, user.ID, now); err != nil {
		logger.CtxWarn(ctx, "failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	metrics.RecordLoginAttempt(ratelimit.ScopeUser, "success")
	return s.issue(user)
}

func (s *AuthServiceImpl) Me(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return user, nil
}

func (s *AuthServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.UserType))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user,
	}, nil
}

func (s *AuthServiceImpl) checkLimiter(ctx context.Context, email string) error {
	if s.limiter == nil {
		return nil
	}
	return limiterError(ctx, s.limiter, ratelimit.ScopeUser, email)
}

func (s *AuthServiceImpl) registerFailure(ctx context.Context, email string) {
	metrics.RecordLoginAttempt(ratelimit.ScopeUser, "failed")
	if s.limiter == nil {
		return
	}
	if _, err := s.limiter.RegisterFailure(ctx, ratelimit.ScopeUser, email); err != nil {
		logger.CtxWarn(ctx, "failed to register login failure", "error", err)
	}
}

// limiterError переводит блокировку лимитера в 429 с retry_after
func limiterError(ctx context.Context, limiter *ratelimit.LoginLimiter, scope, email string) error {
	err := limiter.Check(ctx, scope, email)
	if err == nil {
		return nil
	}
	if errors.Is(err, ratelimit.ErrTooManyAttempts) {
		retry := limiter.RetryAfter(ctx, scope, email)
		return apperrors.ErrTooManyAttempts.WithDetails(map[string]interface{}{
			"retry_after_seconds": int(retry.Seconds()),
		})
	}
	return apperrors.InternalError(err)
}
