package repositories

import (
	"testing"

	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRepository_CreditConfigDefaultsAndUpsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewConfigRepository()

	cfg, err := repo.GetCreditConfig(db)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCreditUnitPrice, cfg.UnitPrice)

	require.NoError(t, repo.SaveCreditConfig(db, &models.CreditConfig{UnitPrice: 150, Label: "x"}))
	require.NoError(t, repo.SaveCreditConfig(db, &models.CreditConfig{UnitPrice: 200, Label: "y"}))

	cfg, err = repo.GetCreditConfig(db)
	require.NoError(t, err)
	assert.Equal(t, int64(200), cfg.UnitPrice)
	assert.Equal(t, "y", cfg.Label)
}

func TestConfigRepository_BoostFallback(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewConfigRepository()
	artisan := testutil.CreateArtisan(t, db, 0)

	cfg, err := repo.GetBoostConfig(db, artisan.ID)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, models.DefaultBoostCost, cfg.Cost)

	require.NoError(t, repo.SaveBoostConfig(db, &models.BoostConfig{Cost: 3, Enabled: true, DurationHours: 12}))
	cfg, err = repo.GetBoostConfig(db, artisan.ID)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.Cost)

	require.NoError(t, repo.SaveBoostConfig(db, &models.BoostConfig{ArtisanID: &artisan.ID, Cost: 1, Enabled: true, DurationHours: 48}))
	cfg, err = repo.GetBoostConfig(db, artisan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Cost)
	assert.Equal(t, 48, cfg.DurationHours)

	// обновление глобальной строки не плодит дубликаты
	require.NoError(t, repo.SaveBoostConfig(db, &models.BoostConfig{Cost: 4, Enabled: false, DurationHours: 12}))
	var count int64
	db.Model(&models.BoostConfig{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
