package repositories

import (
	"errors"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfigRepository хранит настройки цены кредитов и буста
type ConfigRepository interface {
	GetCreditConfig(db *gorm.DB) (*models.CreditConfig, error)
	SaveCreditConfig(db *gorm.DB, cfg *models.CreditConfig) error
	GetBoostConfig(db *gorm.DB, artisanID string) (*models.BoostConfig, error)
	SaveBoostConfig(db *gorm.DB, cfg *models.BoostConfig) error
}

type ConfigRepositoryImpl struct{}

func NewConfigRepository() ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// GetCreditConfig возвращает глобальную строку или значения по умолчанию
func (r *ConfigRepositoryImpl) GetCreditConfig(db *gorm.DB) (*models.CreditConfig, error) {
	var cfg models.CreditConfig
	err := db.First(&cfg, "id = ?", models.GlobalConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CreditConfig{
			ID:        models.GlobalConfigID,
			UnitPrice: models.DefaultCreditUnitPrice,
			Label:     models.DefaultCreditLabel,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigRepositoryImpl) SaveCreditConfig(db *gorm.DB, cfg *models.CreditConfig) error {
	cfg.ID = models.GlobalConfigID
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit_price", "label", "updated_at"}),
	}).Create(cfg).Error
}

// GetBoostConfig: персональная строка артизана, затем глобальная, затем дефолт
func (r *ConfigRepositoryImpl) GetBoostConfig(db *gorm.DB, artisanID string) (*models.BoostConfig, error) {
	if artisanID != "" {
		cfg, err := r.findBoostRow(db, &artisanID)
		if err != nil || cfg != nil {
			return cfg, err
		}
	}

	cfg, err := r.findBoostRow(db, nil)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}
	return &models.BoostConfig{
		Cost:          models.DefaultBoostCost,
		Enabled:       false,
		DurationHours: models.DefaultBoostDurationHrs,
	}, nil
}

func (r *ConfigRepositoryImpl) SaveBoostConfig(db *gorm.DB, cfg *models.BoostConfig) error {
	existing, err := r.findBoostRow(db, cfg.ArtisanID)
	if err != nil {
		return err
	}
	if existing == nil {
		cfg.ID = ""
		return db.Create(cfg).Error
	}

	cfg.BaseModel = existing.BaseModel
	return db.Model(existing).Updates(map[string]interface{}{
		"cost":           cfg.Cost,
		"enabled":        cfg.Enabled,
		"duration_hours": cfg.DurationHours,
	}).Error
}

func (r *ConfigRepositoryImpl) findBoostRow(db *gorm.DB, artisanID *string) (*models.BoostConfig, error) {
	var cfg models.BoostConfig
	query := db.Model(&models.BoostConfig{})
	if artisanID == nil {
		query = query.Where("artisan_id IS NULL")
	} else {
		query = query.Where("artisan_id = ?", *artisanID)
	}

	err := query.First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
