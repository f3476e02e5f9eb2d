package services

import (
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(db *gorm.DB, userID string) (*models.User, error)
	UpdateMe(db *gorm.DB, userID string, req *dto.UpdateUserRequest) (*models.User, error)
	// GetFeatured возвращает nil, если избранного пользователя нет
	GetFeatured(db *gorm.DB) (*dto.PublicUser, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetMe(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) UpdateMe(db *gorm.DB, userID string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetFeatured(db *gorm.DB) (*dto.PublicUser, error) {
	user, err := s.userRepo.FindFeatured(db)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil
		}
		return nil, apperrors.InternalError(err)
	}
	if user == nil {
		return nil, nil
	}
	public := dto.NewPublicUser(user)
	return &public, nil
}
