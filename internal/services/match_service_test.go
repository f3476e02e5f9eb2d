package services

import (
	"net/http"
	"testing"

	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlock_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db, 3)
	client := testutil.CreateParticulier(t, env.db)
	match, _, err := env.matchRepo.CreateIfAbsent(env.db, artisan.ID, client.ID)
	require.NoError(t, err)

	// до разблокировки писать нельзя
	_, err = env.matches.SendMessage(env.db, client.ID, &dto.SendMessageRequest{MatchID: match.ID, Content: "Bonjour"})
	requireAppError(t, err, http.StatusForbidden)

	first, err := env.matches.Unlock(env.db, artisan.ID, match.ID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyUnlocked)
	assert.Equal(t, 1, first.CreditsSpent)
	assert.Equal(t, 2, first.CreditsRemaining)

	second, err := env.matches.Unlock(env.db, artisan.ID, match.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyUnlocked)
	assert.Zero(t, second.CreditsSpent)

	// вторая сторона тоже не платит
	third, err := env.matches.Unlock(env.db, client.ID, match.ID)
	require.NoError(t, err)
	assert.True(t, third.AlreadyUnlocked)

	assert.Equal(t, 2, testutil.Reload(t, env.db, artisan.ID).Credits)
	assert.Contains(t, env.notifier.typesFor(client.ID), models.NotificationChatUnlocked)
}

func TestUnlock_RequiresCreditsAndParticipation(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db, 0)
	client := testutil.CreateParticulier(t, env.db)
	stranger := testutil.CreateParticulier(t, env.db)
	match, _, err := env.matchRepo.CreateIfAbsent(env.db, artisan.ID, client.ID)
	require.NoError(t, err)

	_, err = env.matches.Unlock(env.db, artisan.ID, match.ID)
	requireAppError(t, err, http.StatusPaymentRequired)

	_, err = env.matches.Unlock(env.db, stranger.ID, match.ID)
	requireAppError(t, err, http.StatusForbidden)

	fresh, err := env.matchRepo.FindByID(env.db, match.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsChatUnlocked)
}

func TestMessages_FlowAfterUnlock(t *testing.T) {
	env := newTestEnv(t)
	artisan := testutil.CreateArtisan(t, env.db, 1)
	client := testutil.CreateParticulier(t, env.db)
	match, _, err := env.matchRepo.CreateIfAbsent(env.db, artisan.ID, client.ID)
	require.NoError(t, err)

	// particulier открывает чат бесплатно
	unlock, err := env.matches.Unlock(env.db, client.ID, match.ID)
	require.NoError(t, err)
	assert.Zero(t, unlock.CreditsSpent)

	msg, err := env.matches.SendMessage(env.db, client.ID, &dto.SendMessageRequest{MatchID: match.ID, Content: "Bonjour, êtes-vous disponible ?"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeText, msg.MessageType)
	assert.Contains(t, env.notifier.typesFor(artisan.ID), models.NotificationNewMessage)

	messages, err := env.matches.GetMessages(env.db, artisan.ID, match.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, msg.ID, messages[0].ID)

	matches, err := env.matches.List(env.db, artisan.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, client.ID, matches[0].OtherUser.ID)
}
