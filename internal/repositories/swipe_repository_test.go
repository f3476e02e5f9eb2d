package repositories

import (
	"testing"
	"time"

	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwipeRepository_UniquePair(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSwipeRepository()
	artisan := testutil.CreateArtisan(t, db, 5)
	client := testutil.CreateParticulier(t, db)

	require.NoError(t, repo.Create(db, &models.Swipe{ActorID: artisan.ID, TargetID: client.ID, Action: models.SwipeActionLike}))
	err := repo.Create(db, &models.Swipe{ActorID: artisan.ID, TargetID: client.ID, Action: models.SwipeActionDislike})
	assert.ErrorIs(t, err, ErrDuplicateSwipe)

	liked, err := repo.HasLiked(db, artisan.ID, client.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.HasLiked(db, client.ID, artisan.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	ids, err := repo.SwipedTargetIDs(db, artisan.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{client.ID}, ids)
}

func TestMatchRepository_CreateIfAbsentOrdersPair(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMatchRepository()
	a := testutil.CreateArtisan(t, db, 0)
	b := testutil.CreateParticulier(t, db)

	m1, created, err := repo.CreateIfAbsent(db, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, m1.User1ID < m1.User2ID)

	m2, created, err := repo.CreateIfAbsent(db, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m1.ID, m2.ID)

	count, err := repo.CountAll(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMatchRepository_UnlockOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMatchRepository()
	a := testutil.CreateArtisan(t, db, 0)
	b := testutil.CreateParticulier(t, db)
	match, _, err := repo.CreateIfAbsent(db, a.ID, b.ID)
	require.NoError(t, err)

	changed, err := repo.Unlock(db, match.ID, a.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Unlock(db, match.ID, b.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)

	reloaded, err := repo.FindByID(db, match.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsChatUnlocked)
	require.NotNil(t, reloaded.UnlockedBy)
	assert.Equal(t, a.ID, *reloaded.UnlockedBy)
}

func TestMessageRepository_MarkReadOnlyIncoming(t *testing.T) {
	db := testutil.NewTestDB(t)
	matches := NewMatchRepository()
	repo := NewMessageRepository()
	a := testutil.CreateArtisan(t, db, 0)
	b := testutil.CreateParticulier(t, db)
	match, _, err := matches.CreateIfAbsent(db, a.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Create(db, &models.Message{MatchID: match.ID, SenderID: a.ID, Content: "Bonjour"}))
	require.NoError(t, repo.Create(db, &models.Message{MatchID: match.ID, SenderID: b.ID, Content: "Salut"}))

	n, err := repo.MarkRead(db, match.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	unread, err := repo.CountUnread(db, match.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	history, err := repo.FindByMatch(db, match.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.MessageTypeText, history[0].MessageType)
}
