package repositories

import (
	"errors"
	"strings"
	"time"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists for this user")
)

type ArtisanSearchCriteria struct {
	Profession string `form:"profession"`
	City       string `form:"city"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type ProfileRepository interface {
	// ArtisanProfile operations
	CreateArtisanProfile(db *gorm.DB, profile *models.ArtisanProfile) error
	FindArtisanProfileByUserID(db *gorm.DB, userID string) (*models.ArtisanProfile, error)
	UpdateArtisanProfile(db *gorm.DB, profile *models.ArtisanProfile) error
	UpdateArtisanValidation(db *gorm.DB, userID string, status models.ValidationStatus, reason string) error
	SetBoostedUntil(db *gorm.DB, userID string, until time.Time) error
	SearchArtisanProfiles(db *gorm.DB, criteria ArtisanSearchCriteria) ([]models.ArtisanProfile, int64, error)
	FindArtisanCandidates(db *gorm.DB, excludeUserIDs []string) ([]models.User, error)

	// ParticulierProfile operations
	CreateParticulierProfile(db *gorm.DB, profile *models.ParticulierProfile) error
	FindParticulierProfileByUserID(db *gorm.DB, userID string) (*models.ParticulierProfile, error)
	UpdateParticulierProfile(db *gorm.DB, profile *models.ParticulierProfile) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

// ArtisanProfile operations

func (r *ProfileRepositoryImpl) CreateArtisanProfile(db *gorm.DB, profile *models.ArtisanProfile) error {
	var count int64
	if err := db.Model(&models.ArtisanProfile{}).Where("user_id = ?", profile.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProfileAlreadyExists
	}
	if profile.ValidationStatus == "" {
		profile.ValidationStatus = models.ValidationStatusPending
	}
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindArtisanProfileByUserID(db *gorm.DB, userID string) (*models.ArtisanProfile, error) {
	var profile models.ArtisanProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateArtisanProfile(db *gorm.DB, profile *models.ArtisanProfile) error {
	return db.Save(profile).Error
}

func (r *ProfileRepositoryImpl) UpdateArtisanValidation(db *gorm.DB, userID string, status models.ValidationStatus, reason string) error {
	result := db.Model(&models.ArtisanProfile{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"validation_status": status,
			"rejection_reason":  reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) SetBoostedUntil(db *gorm.DB, userID string, until time.Time) error {
	result := db.Model(&models.ArtisanProfile{}).Where("user_id = ?", userID).Update("boosted_until", until)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SearchArtisanProfiles ищет валидированные профили. Профессии лежат в JSON,
// поэтому фильтр по ним и пагинация делаются в Go.
func (r *ProfileRepositoryImpl) SearchArtisanProfiles(db *gorm.DB, criteria ArtisanSearchCriteria) ([]models.ArtisanProfile, int64, error) {
	var profiles []models.ArtisanProfile

	query := db.Model(&models.ArtisanProfile{}).
		Joins("JOIN users ON users.id = artisan_profiles.user_id").
		Where("artisan_profiles.validation_status = ?", models.ValidationStatusValidated).
		Where("users.status <> ?", models.UserStatusSuspended)

	if criteria.City != "" {
		query = query.Where("LOWER(artisan_profiles.city) = ?", strings.ToLower(criteria.City))
	}

	if err := query.Order("artisan_profiles.created_at DESC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Profession != "" {
		filtered := profiles[:0]
		for _, p := range profiles {
			if containsString(p.Professions, criteria.Profession) {
				filtered = append(filtered, p)
			}
		}
		profiles = filtered
	}

	total := int64(len(profiles))
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)
	start := (page - 1) * pageSize
	if start >= len(profiles) {
		return []models.ArtisanProfile{}, total, nil
	}
	end := start + pageSize
	if end > len(profiles) {
		end = len(profiles)
	}
	return profiles[start:end], total, nil
}

// FindArtisanCandidates - валидированные артизаны, кроме уже просвайпанных
func (r *ProfileRepositoryImpl) FindArtisanCandidates(db *gorm.DB, excludeUserIDs []string) ([]models.User, error) {
	var users []models.User
	query := db.Preload("ArtisanProfile").
		Joins("JOIN artisan_profiles ON artisan_profiles.user_id = users.id").
		Where("users.user_type = ?", models.UserTypeArtisan).
		Where("users.status <> ?", models.UserStatusSuspended).
		Where("artisan_profiles.validation_status = ?", models.ValidationStatusValidated)

	if len(excludeUserIDs) > 0 {
		query = query.Where("users.id NOT IN ?", excludeUserIDs)
	}

	err := query.Find(&users).Error
	return users, err
}

// ParticulierProfile operations

func (r *ProfileRepositoryImpl) CreateParticulierProfile(db *gorm.DB, profile *models.ParticulierProfile) error {
	var count int64
	if err := db.Model(&models.ParticulierProfile{}).Where("user_id = ?", profile.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProfileAlreadyExists
	}
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindParticulierProfileByUserID(db *gorm.DB, userID string) (*models.ParticulierProfile, error) {
	var profile models.ParticulierProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateParticulierProfile(db *gorm.DB, profile *models.ParticulierProfile) error {
	return db.Save(profile).Error
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
