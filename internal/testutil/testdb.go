// Package testutil собирает общие хелперы для тестов пакетов:
// in-memory SQLite с миграциями и фабрики сущностей.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/database"
	"swipetonpro_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var dbCounter int64

// NewTestDB открывает изолированную in-memory SQLite базу на тест.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&dbCounter, 1)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, n)

	db, err := database.Open("sqlite", dsn, "test")
	require.NoError(t, err, "не удалось открыть тестовую БД")
	require.NoError(t, database.AutoMigrate(db))

	// SQLite не держит параллельных писателей, транзакции идут по очереди
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// TestPassword - пароль всех пользователей из фабрик
const TestPassword = "password123"

var hashedTestPassword string

func passwordHash(t *testing.T) string {
	if hashedTestPassword == "" {
		h, err := auth.HashPassword(TestPassword)
		require.NoError(t, err)
		hashedTestPassword = h
	}
	return hashedTestPassword
}

// CreateArtisan создает валидированного артизана с профилем и кредитами
func CreateArtisan(t *testing.T, db *gorm.DB, credits int, professions ...string) *models.User {
	t.Helper()
	if len(professions) == 0 {
		professions = []string{"electricien"}
	}
	n := atomic.AddInt64(&dbCounter, 1)
	user := &models.User{
		Email:        fmt.Sprintf("artisan_%d@test.fr", n),
		PasswordHash: passwordHash(t),
		FirstName:    "Jean",
		LastName:     fmt.Sprintf("Artisan%d", n),
		UserType:     models.UserTypeArtisan,
		Status:       models.UserStatusValidated,
		Credits:      credits,
	}
	require.NoError(t, db.Create(user).Error)

	profile := &models.ArtisanProfile{
		UserID:           user.ID,
		CompanyName:      "Entreprise " + user.LastName,
		Professions:      datatypes.JSONSlice[string](professions),
		City:             "Paris",
		RadiusKm:         30,
		Available:        true,
		ValidationStatus: models.ValidationStatusValidated,
	}
	require.NoError(t, db.Create(profile).Error)
	user.ArtisanProfile = profile
	return user
}

// CreateParticulier создает частное лицо с профилем
func CreateParticulier(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := atomic.AddInt64(&dbCounter, 1)
	user := &models.User{
		Email:        fmt.Sprintf("particulier_%d@test.fr", n),
		PasswordHash: passwordHash(t),
		FirstName:    "Marie",
		LastName:     fmt.Sprintf("Client%d", n),
		UserType:     models.UserTypeParticulier,
		Status:       models.UserStatusGhost,
	}
	require.NoError(t, db.Create(user).Error)

	profile := &models.ParticulierProfile{
		UserID: user.ID,
		City:   "Paris",
	}
	require.NoError(t, db.Create(profile).Error)
	user.ParticulierProfile = profile
	return user
}

// CreateProject публикует открытый проект от имени particulier
func CreateProject(t *testing.T, db *gorm.DB, ownerID string, professions ...string) *models.Project {
	t.Helper()
	if len(professions) == 0 {
		professions = []string{"electricien"}
	}
	project := &models.Project{
		OwnerID:     ownerID,
		Title:       "Rénovation tableau électrique",
		Professions: datatypes.JSONSlice[string](professions),
		City:        "Paris",
		Urgency:     "normal",
		Status:      models.ProjectStatusOpen,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateAdmin создает активного админа с ролью и правами
func CreateAdmin(t *testing.T, db *gorm.DB, role models.AdminRole, permissions ...string) *models.Admin {
	t.Helper()
	n := atomic.AddInt64(&dbCounter, 1)
	admin := &models.Admin{
		Email:        fmt.Sprintf("admin_%d@swipetonpro.fr", n),
		Name:         fmt.Sprintf("admin%d", n),
		PasswordHash: passwordHash(t),
		Role:         role,
		Permissions:  datatypes.JSONSlice[string](append([]string{}, permissions...)),
		IsActive:     true,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

// Reload перечитывает пользователя из БД
func Reload(t *testing.T, db *gorm.DB, userID string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return &user
}
