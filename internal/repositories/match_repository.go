package repositories

import (
	"errors"
	"time"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	CreateIfAbsent(db *gorm.DB, userA, userB string) (*models.Match, bool, error)
	FindByID(db *gorm.DB, id string) (*models.Match, error)
	FindByPair(db *gorm.DB, userA, userB string) (*models.Match, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Match, error)
	Unlock(db *gorm.DB, matchID, unlockedBy string, at time.Time) (bool, error)
	CountAll(db *gorm.DB) (int64, error)
}

type MatchRepositoryImpl struct{}

func NewMatchRepository() MatchRepository {
	return &MatchRepositoryImpl{}
}

// CreateIfAbsent создает матч для упорядоченной пары. Второй bool = true,
// если матч создан этим вызовом.
func (r *MatchRepositoryImpl) CreateIfAbsent(db *gorm.DB, userA, userB string) (*models.Match, bool, error) {
	u1, u2 := models.OrderedPair(userA, userB)
	match := &models.Match{User1ID: u1, User2ID: u2}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(match)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return match, true, nil
	}

	existing, err := r.FindByPair(db, u1, u2)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *MatchRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Match, error) {
	var match models.Match
	if err := db.First(&match, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) FindByPair(db *gorm.DB, userA, userB string) (*models.Match, error) {
	u1, u2 := models.OrderedPair(userA, userB)
	var match models.Match
	err := db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := db.Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").Find(&matches).Error
	return matches, err
}

// Unlock открывает чат. false - чат уже был открыт раньше.
func (r *MatchRepositoryImpl) Unlock(db *gorm.DB, matchID, unlockedBy string, at time.Time) (bool, error) {
	result := db.Model(&models.Match{}).
		Where("id = ? AND is_chat_unlocked = ?", matchID, false).
		Updates(map[string]interface{}{
			"is_chat_unlocked": true,
			"unlocked_by":      unlockedBy,
			"unlocked_at":      at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MatchRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Match{}).Count(&count).Error
	return count, err
}
