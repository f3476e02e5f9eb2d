package repositories

import (
	"errors"
	"strings"
	"time"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

type UserFilter struct {
	Status   models.UserStatus
	UserType models.UserType
	Search   string
	Page     int
	PageSize int
}

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.User, error)
	Update(db *gorm.DB, user *models.User) error
	UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error
	UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error
	Delete(db *gorm.DB, userID string) error

	FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error)
	CountAll(db *gorm.DB) (int64, error)
	CountByType(db *gorm.DB, userType models.UserType) (int64, error)

	// LockPair берет блокировку строк обоих пользователей в порядке id
	LockPair(db *gorm.DB, a, b string) error

	// Credits
	DeductCredits(db *gorm.DB, userID string, amount int) error
	AdjustCredits(db *gorm.DB, userID string, delta int) (int, error)
	GetCredits(db *gorm.DB, userID string) (int, error)

	// Featured
	FindFeatured(db *gorm.DB) (*models.User, error)
	SetFeatured(db *gorm.DB, userID string) error

	// Subscriptions
	ActivatePack(db *gorm.DB, userID string, pack models.SubscriptionPack, now time.Time) error
	ExpireSubscriptions(db *gorm.DB, now time.Time) (int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}

	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Preload("ArtisanProfile").Preload("ParticulierProfile").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Preload("ArtisanProfile").Preload("ParticulierProfile").
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := db.Preload("ArtisanProfile").Preload("ParticulierProfile").
		Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Update сохраняет только поля самого пользователя, без профилей
func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Omit("ArtisanProfile", "ParticulierProfile", "Credits").Save(user).Error
}

func (r *UserRepositoryImpl) UpdateStatus(db *gorm.DB, userID string, status models.UserStatus) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(db *gorm.DB, userID string, at time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	result := db.Select("ArtisanProfile", "ParticulierProfile").Delete(&models.User{BaseModel: models.BaseModel{ID: userID}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.User, int64, error) {
	var users []models.User
	query := db.Model(&models.User{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserType != "" {
		query = query.Where("user_type = ?", filter.UserType)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountByType(db *gorm.DB, userType models.UserType) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("user_type = ?", userType).Count(&count).Error
	return count, err
}

// DeductCredits списывает amount кредитов одним условным UPDATE.
// Если кредитов не хватает, строка не меняется и возвращается ErrInsufficientCredits.
// LockPair сериализует встречные операции над парой пользователей.
// SQLite блокировку строк не поддерживает, там ее роль играет единственное соединение.
func (r *UserRepositoryImpl) LockPair(db *gorm.DB, a, b string) error {
	first, second := models.OrderedPair(a, b)
	for _, id := range []string{first, second} {
		var locked struct{ ID string }
		err := db.Model(&models.User{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", id).
			Take(&locked).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

func (r *UserRepositoryImpl) DeductCredits(db *gorm.DB, userID string, amount int) error {
	result := db.Model(&models.User{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Update("credits", gorm.Expr("credits - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

// AdjustCredits прибавляет delta (может быть отрицательным), не опускаясь ниже нуля
func (r *UserRepositoryImpl) AdjustCredits(db *gorm.DB, userID string, delta int) (int, error) {
	result := db.Model(&models.User{}).Where("id = ?", userID).
		Update("credits", gorm.Expr("CASE WHEN credits + ? < 0 THEN 0 ELSE credits + ? END", delta, delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}
	return r.GetCredits(db, userID)
}

func (r *UserRepositoryImpl) GetCredits(db *gorm.DB, userID string) (int, error) {
	var user models.User
	err := db.Select("id", "credits").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Credits, nil
}

func (r *UserRepositoryImpl) FindFeatured(db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.Preload("ArtisanProfile").Preload("ParticulierProfile").
		Where("is_featured = ? AND status <> ?", true, models.UserStatusSuspended).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetFeatured оставляет ровно одного featured пользователя
func (r *UserRepositoryImpl) SetFeatured(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("is_featured = ?", true).
			Update("is_featured", false).Error; err != nil {
			return err
		}
		result := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_featured", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// ActivatePack начисляет кредиты пака или включает безлимит на DurationDays.
// Пока безлимит активен, кредитный пак не меняет subscription_pack.
func (r *UserRepositoryImpl) ActivatePack(db *gorm.DB, userID string, pack models.SubscriptionPack, now time.Time) error {
	updates := map[string]interface{}{}
	if pack.IsUnlimited() {
		updates["subscription_pack"] = pack.Code
		updates["unlimited_credits"] = true
		updates["subscription_expires"] = now.AddDate(0, 0, pack.DurationDays)
	} else {
		updates["credits"] = gorm.Expr("credits + ?", pack.Credits)
		updates["subscription_pack"] = gorm.Expr("CASE WHEN unlimited_credits THEN subscription_pack ELSE ? END", pack.Code)
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ExpireSubscriptions(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.User{}).
		Where("subscription_expires IS NOT NULL AND subscription_expires < ?", now).
		Updates(map[string]interface{}{
			"subscription_pack":    "",
			"unlimited_credits":    false,
			"subscription_expires": nil,
		})
	return result.RowsAffected, result.Error
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
