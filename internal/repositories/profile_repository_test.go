package repositories

import (
	"context"
	"testing"

	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_SearchArtisanProfiles(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository()
	testutil.CreateArtisan(t, db, 0, "plombier", "chauffagiste")
	testutil.CreateArtisan(t, db, 0, "electricien")
	suspended := testutil.CreateArtisan(t, db, 0, "plombier")
	require.NoError(t, NewUserRepository().UpdateStatus(db, suspended.ID, models.UserStatusSuspended))

	profiles, total, err := repo.SearchArtisanProfiles(db, ArtisanSearchCriteria{Profession: "plombier"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, profiles, 1)
	assert.Contains(t, []string(profiles[0].Professions), "plombier")

	_, total, err = repo.SearchArtisanProfiles(db, ArtisanSearchCriteria{City: "paris"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestProfileRepository_ArtisanCandidatesExclude(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository()
	a1 := testutil.CreateArtisan(t, db, 0)
	a2 := testutil.CreateArtisan(t, db, 0)
	require.NoError(t, repo.UpdateArtisanValidation(db, a2.ID, models.ValidationStatusPending, ""))
	a3 := testutil.CreateArtisan(t, db, 0)

	users, err := repo.FindArtisanCandidates(db, []string{a1.ID})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, a3.ID, users[0].ID)
	assert.NotNil(t, users[0].ArtisanProfile)
}

func TestProfileRepository_DuplicateProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository()
	client := testutil.CreateParticulier(t, db)

	err := repo.CreateParticulierProfile(db, &models.ParticulierProfile{UserID: client.ID})
	assert.ErrorIs(t, err, ErrProfileAlreadyExists)
}

func TestProfileRepository_CreateProfileErrors(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository()
	artisan := testutil.CreateArtisan(t, db, 0)
	client := testutil.CreateParticulier(t, db)

	err := repo.CreateArtisanProfile(db, &models.ArtisanProfile{UserID: artisan.ID})
	assert.ErrorIs(t, err, ErrProfileAlreadyExists)
	err = repo.CreateParticulierProfile(db, &models.ParticulierProfile{UserID: client.ID})
	assert.ErrorIs(t, err, ErrProfileAlreadyExists)

	// сбой проверки дубликата не должен превращаться в создание профиля
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = repo.CreateParticulierProfile(db.WithContext(ctx), &models.ParticulierProfile{UserID: client.ID})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProfileAlreadyExists)
	assert.ErrorIs(t, err, context.Canceled)
}
