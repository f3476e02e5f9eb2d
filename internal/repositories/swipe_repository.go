package repositories

import (
	"errors"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDuplicateSwipe = errors.New("swipe already exists for this target")

type SwipeRepository interface {
	Create(db *gorm.DB, swipe *models.Swipe) error
	Exists(db *gorm.DB, actorID, targetID string) (bool, error)
	HasLiked(db *gorm.DB, actorID, targetID string) (bool, error)
	SwipedTargetIDs(db *gorm.DB, actorID string) ([]string, error)
	CountAll(db *gorm.DB) (int64, error)
	CountByActor(db *gorm.DB, actorID string) (int64, error)
}

type SwipeRepositoryImpl struct{}

func NewSwipeRepository() SwipeRepository {
	return &SwipeRepositoryImpl{}
}

// Create вставляет свайп; повтор по (actor, target) отдает ErrDuplicateSwipe
func (r *SwipeRepositoryImpl) Create(db *gorm.DB, swipe *models.Swipe) error {
	if err := db.Create(swipe).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSwipe
		}
		return err
	}
	return nil
}

func (r *SwipeRepositoryImpl) Exists(db *gorm.DB, actorID, targetID string) (bool, error) {
	var count int64
	err := db.Model(&models.Swipe{}).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		Count(&count).Error
	return count > 0, err
}

func (r *SwipeRepositoryImpl) HasLiked(db *gorm.DB, actorID, targetID string) (bool, error) {
	var count int64
	err := db.Model(&models.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND action = ?", actorID, targetID, models.SwipeActionLike).
		Count(&count).Error
	return count > 0, err
}

func (r *SwipeRepositoryImpl) SwipedTargetIDs(db *gorm.DB, actorID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.Swipe{}).Where("actor_id = ?", actorID).Pluck("target_id", &ids).Error
	return ids, err
}

func (r *SwipeRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Swipe{}).Count(&count).Error
	return count, err
}

func (r *SwipeRepositoryImpl) CountByActor(db *gorm.DB, actorID string) (int64, error) {
	var count int64
	err := db.Model(&models.Swipe{}).Where("actor_id = ?", actorID).Count(&count).Error
	return count, err
}
