package services

import (
	"bytes"
	"context"
	"errors"
	"io"

	"swipetonpro_backend/internal/imageprocessor"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/storage"
	"swipetonpro_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxPortfolioImages = 30

type ProfileService interface {
	GetMine(db *gorm.DB, userID string) (*models.User, error)
	// Upsert создает или обновляет профиль в зависимости от user_type
	Upsert(db *gorm.DB, userID string, req *dto.ProfileRequest) (*models.User, error)
	SearchArtisans(db *gorm.DB, req *dto.ArtisanSearchRequest) (*dto.PaginatedResponse, error)
	AddPortfolioImage(ctx context.Context, db *gorm.DB, userID string, file io.Reader) (*dto.PortfolioResponse, error)
}

type ProfileServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	storage     storage.Storage
	images      *imageprocessor.Processor
}

func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
) ProfileService {
	return &ProfileServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		storage:     store,
		images:      images,
	}
}

func (s *ProfileServiceImpl) GetMine(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return user, nil
}

func (s *ProfileServiceImpl) Upsert(db *gorm.DB, userID string, req *dto.ProfileRequest) (*models.User, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if user.IsArtisan() {
		profile, err := s.upsertArtisan(tx, userID, req)
		if err != nil {
			return nil, err
		}
		user.ArtisanProfile = profile
	} else {
		profile, err := s.upsertParticulier(tx, userID, req)
		if err != nil {
			return nil, err
		}
		user.ParticulierProfile = profile
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *ProfileServiceImpl) upsertArtisan(tx *gorm.DB, userID string, req *dto.ProfileRequest) (*models.ArtisanProfile, error) {
	profile, err := s.profileRepo.FindArtisanProfileByUserID(tx, userID)
	isNew := false
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.InternalError(err)
		}
		profile = &models.ArtisanProfile{
			UserID:           userID,
			ValidationStatus: models.ValidationStatusPending,
			Available:        true,
		}
		isNew = true
	}

	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.CompanyStatus != nil {
		profile.CompanyStatus = models.CompanyStatus(*req.CompanyStatus)
	}
	if req.Siret != nil {
		profile.Siret = *req.Siret
	}
	if req.Professions != nil {
		profile.Professions = datatypes.JSONSlice[string](uniqueStrings(req.Professions))
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = req.HourlyRate
	}
	if req.ExperienceYears != nil {
		profile.ExperienceYears = *req.ExperienceYears
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Latitude != nil {
		profile.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		profile.Longitude = req.Longitude
	}
	if req.RadiusKm != nil {
		profile.RadiusKm = *req.RadiusKm
	}
	if req.Available != nil {
		profile.Available = *req.Available
	}
	if req.Certifications != nil {
		profile.Certifications = datatypes.JSONSlice[string](req.Certifications)
	}

	if isNew {
		err = s.profileRepo.CreateArtisanProfile(tx, profile)
	} else {
		err = s.profileRepo.UpdateArtisanProfile(tx, profile)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) upsertParticulier(tx *gorm.DB, userID string, req *dto.ProfileRequest) (*models.ParticulierProfile, error) {
	profile, err := s.profileRepo.FindParticulierProfileByUserID(tx, userID)
	isNew := false
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.InternalError(err)
		}
		profile = &models.ParticulierProfile{UserID: userID}
		isNew = true
	}

	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.PostalCode != nil {
		profile.PostalCode = *req.PostalCode
	}
	if req.Latitude != nil {
		profile.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		profile.Longitude = req.Longitude
	}
	if req.PropertyType != nil {
		profile.PropertyType = *req.PropertyType
	}
	if req.PropertySurface != nil {
		profile.PropertySurface = req.PropertySurface
	}
	if req.ProjectDetails != nil {
		profile.ProjectDetails = *req.ProjectDetails
	}

	if isNew {
		err = s.profileRepo.CreateParticulierProfile(tx, profile)
	} else {
		err = s.profileRepo.UpdateParticulierProfile(tx, profile)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) SearchArtisans(db *gorm.DB, req *dto.ArtisanSearchRequest) (*dto.PaginatedResponse, error) {
	page, pageSize, _ := pageOffset(req.Page, req.PageSize)
	profiles, total, err := s.profileRepo.SearchArtisanProfiles(db, repositories.ArtisanSearchCriteria{
		Profession: req.Profession,
		City:       req.City,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(profiles, total, page, pageSize), nil
}

// AddPortfolioImage режет картинку на medium и thumbnail и дописывает
// ключи в профиль артизана
func (s *ProfileServiceImpl) AddPortfolioImage(ctx context.Context, db *gorm.DB, userID string, file io.Reader) (*dto.PortfolioResponse, error) {
	profile, err := s.profileRepo.FindArtisanProfileByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrInvalidUserType
		}
		return nil, apperrors.InternalError(err)
	}
	if len(profile.PortfolioImages) >= maxPortfolioImages*len(imageprocessor.PortfolioSizes) {
		return nil, apperrors.ErrInvalidOperation("profile", "Portfolio image limit reached")
	}

	variants, err := s.images.Variants(file, imageprocessor.PortfolioSizes...)
	if err != nil {
		if errors.Is(err, imageprocessor.ErrUnsupportedImage) {
			return nil, apperrors.ErrInvalidFileType
		}
		return nil, apperrors.InternalError(err)
	}

	imageID := uuid.NewString()
	resp := &dto.PortfolioResponse{}
	for _, v := range variants {
		key := storage.PortfolioKey(userID, imageID, v.Size.Name, v.Ext)
		if err := s.storage.Save(ctx, key, bytes.NewReader(v.Data), v.ContentType); err != nil {
			s.cleanup(ctx, resp.Keys)
			return nil, apperrors.InternalError(err)
		}
		resp.Keys = append(resp.Keys, key)

		url, err := s.storage.GetURL(ctx, key)
		if err != nil {
			logger.CtxWarn(ctx, "failed to build portfolio url", "key", key, "error", err)
		}
		resp.URLs = append(resp.URLs, url)
	}

	profile.PortfolioImages = append(profile.PortfolioImages, resp.Keys...)
	if err := s.profileRepo.UpdateArtisanProfile(db, profile); err != nil {
		s.cleanup(ctx, resp.Keys)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "portfolio image added", "user_id", userID, "variants", len(variants))
	return resp, nil
}

func (s *ProfileServiceImpl) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWarn(ctx, "failed to delete orphan file", "key", key, "error", err)
		}
	}
}

func uniqueStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
