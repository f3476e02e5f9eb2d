package repositories

import (
	"errors"
	"strings"
	"time"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminAlreadyExists = errors.New("admin already exists")
	ErrInvitationNotFound = errors.New("invitation not found")
)

type AdminRepository interface {
	Create(db *gorm.DB, admin *models.Admin) error
	FindByID(db *gorm.DB, id string) (*models.Admin, error)
	FindByEmail(db *gorm.DB, email string) (*models.Admin, error)
	FindAll(db *gorm.DB) ([]models.Admin, error)
	Update(db *gorm.DB, admin *models.Admin) error
	UpdateLastLogin(db *gorm.DB, id string, at time.Time) error
	Delete(db *gorm.DB, id string) error
	CountAll(db *gorm.DB) (int64, error)

	// Invitations
	CreateInvitation(db *gorm.DB, inv *models.Invitation) error
	FindInvitationByToken(db *gorm.DB, token string) (*models.Invitation, error)
	FindInvitations(db *gorm.DB) ([]models.Invitation, error)
	MarkInvitationAccepted(db *gorm.DB, id string, at time.Time) (bool, error)
}

type AdminRepositoryImpl struct{}

func NewAdminRepository() AdminRepository {
	return &AdminRepositoryImpl{}
}

func (r *AdminRepositoryImpl) Create(db *gorm.DB, admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))

	var count int64
	if err := db.Model(&models.Admin{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAdminAlreadyExists
	}
	if err := db.Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAdminAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AdminRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Admin, error) {
	var admin models.Admin
	err := db.First(&admin, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) FindAll(db *gorm.DB) ([]models.Admin, error) {
	var admins []models.Admin
	err := db.Order("created_at ASC").Find(&admins).Error
	return admins, err
}

func (r *AdminRepositoryImpl) Update(db *gorm.DB, admin *models.Admin) error {
	return db.Save(admin).Error
}

func (r *AdminRepositoryImpl) UpdateLastLogin(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.Admin{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *AdminRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Admin{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *AdminRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Admin{}).Count(&count).Error
	return count, err
}

// Invitations

func (r *AdminRepositoryImpl) CreateInvitation(db *gorm.DB, inv *models.Invitation) error {
	inv.Email = strings.ToLower(strings.TrimSpace(inv.Email))
	return db.Create(inv).Error
}

func (r *AdminRepositoryImpl) FindInvitationByToken(db *gorm.DB, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := db.First(&inv, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *AdminRepositoryImpl) FindInvitations(db *gorm.DB) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := db.Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}

// MarkInvitationAccepted срабатывает только один раз на приглашение
func (r *AdminRepositoryImpl) MarkInvitationAccepted(db *gorm.DB, id string, at time.Time) (bool, error) {
	result := db.Model(&models.Invitation{}).
		Where("id = ? AND accepted_at IS NULL", id).
		Update("accepted_at", at)
	return result.RowsAffected > 0, result.Error
}
