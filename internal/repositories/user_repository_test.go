package repositories

import (
	"sync"
	"testing"
	"time"

	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()

	user := &models.User{Email: "Dupont@Test.fr", PasswordHash: "x", UserType: models.UserTypeParticulier, Status: models.UserStatusGhost}
	require.NoError(t, repo.Create(db, user))
	assert.Equal(t, "dupont@test.fr", user.Email)

	again := &models.User{Email: "dupont@test.fr", PasswordHash: "x", UserType: models.UserTypeArtisan, Status: models.UserStatusGhost}
	assert.ErrorIs(t, repo.Create(db, again), ErrUserAlreadyExists)

	found, err := repo.FindByEmail(db, " DUPONT@test.fr ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByID(db, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DeductCredits(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	artisan := testutil.CreateArtisan(t, db, 1)

	require.NoError(t, repo.DeductCredits(db, artisan.ID, 1))
	assert.ErrorIs(t, repo.DeductCredits(db, artisan.ID, 1), ErrInsufficientCredits)

	credits, err := repo.GetCredits(db, artisan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, credits)
}

func TestUserRepository_DeductCreditsConcurrent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	artisan := testutil.CreateArtisan(t, db, 3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DeductCredits(db, artisan.ID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 0, testutil.Reload(t, db, artisan.ID).Credits)
}

func TestUserRepository_AdjustCreditsNeverNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	artisan := testutil.CreateArtisan(t, db, 2)

	credits, err := repo.AdjustCredits(db, artisan.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, credits)

	credits, err = repo.AdjustCredits(db, artisan.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, credits)
}

func TestUserRepository_SetFeaturedKeepsSingle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	first := testutil.CreateArtisan(t, db, 0)
	second := testutil.CreateParticulier(t, db)

	require.NoError(t, repo.SetFeatured(db, first.ID))
	require.NoError(t, repo.SetFeatured(db, second.ID))

	featured, err := repo.FindFeatured(db)
	require.NoError(t, err)
	assert.Equal(t, second.ID, featured.ID)
	assert.False(t, testutil.Reload(t, db, first.ID).IsFeatured)
}

func TestUserRepository_PacksAndExpiry(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	artisan := testutil.CreateArtisan(t, db, 1)
	now := time.Now().UTC()

	starter, _ := models.FindPack("starter")
	require.NoError(t, repo.ActivatePack(db, artisan.ID, starter, now))
	assert.Equal(t, 11, testutil.Reload(t, db, artisan.ID).Credits)

	unlimited, _ := models.FindPack("unlimited")
	require.NoError(t, repo.ActivatePack(db, artisan.ID, unlimited, now.AddDate(0, 0, -31)))
	assert.True(t, testutil.Reload(t, db, artisan.ID).UnlimitedCredits)

	n, err := repo.ExpireSubscriptions(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	reloaded := testutil.Reload(t, db, artisan.ID)
	assert.False(t, reloaded.UnlimitedCredits)
	assert.Empty(t, reloaded.SubscriptionPack)
	assert.Nil(t, reloaded.SubscriptionExpires)
}

func TestUserRepository_CreditPackKeepsUnlimitedLabel(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	artisan := testutil.CreateArtisan(t, db, 0)
	now := time.Now().UTC()

	unlimited, _ := models.FindPack("unlimited")
	require.NoError(t, repo.ActivatePack(db, artisan.ID, unlimited, now))

	starter, _ := models.FindPack("starter")
	require.NoError(t, repo.ActivatePack(db, artisan.ID, starter, now))

	reloaded := testutil.Reload(t, db, artisan.ID)
	assert.Equal(t, "unlimited", reloaded.SubscriptionPack)
	assert.True(t, reloaded.UnlimitedCredits)
	assert.Equal(t, 10, reloaded.Credits)

	// после истечения безлимита купленные кредиты остаются
	n, err := repo.ExpireSubscriptions(db, now.AddDate(0, 0, 31))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	reloaded = testutil.Reload(t, db, artisan.ID)
	assert.False(t, reloaded.UnlimitedCredits)
	assert.Equal(t, 10, reloaded.Credits)
}

func TestUserRepository_LockPair(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	artisan := testutil.CreateArtisan(t, db, 0)
	client := testutil.CreateParticulier(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.LockPair(tx, client.ID, artisan.ID)
	})
	assert.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return repo.LockPair(tx, artisan.ID, "missing")
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_FindWithFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()
	testutil.CreateArtisan(t, db, 0)
	testutil.CreateArtisan(t, db, 0)
	testutil.CreateParticulier(t, db)

	users, total, err := repo.FindWithFilter(db, UserFilter{UserType: models.UserTypeArtisan, Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 1)

	users, total, err = repo.FindWithFilter(db, UserFilter{Search: "client"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.UserTypeParticulier, users[0].UserType)
}
