package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, AudienceUser)

	token, err := m.GenerateToken("user-1", "artisan")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "artisan", claims.Role)
}

func TestTokenManager_RejectsOtherAudience(t *testing.T) {
	users := NewTokenManager("secret", time.Hour, AudienceUser)
	admins := NewTokenManager("secret", time.Hour, AudienceAdmin)

	token, err := users.GenerateToken("user-1", "particulier")
	require.NoError(t, err)

	_, err = admins.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongSecretAndExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, AudienceUser)
	other := NewTokenManager("other", time.Hour, AudienceUser)
	expired := NewTokenManager("secret", -time.Minute, AudienceUser)

	token, err := other.GenerateToken("user-1", "artisan")
	require.NoError(t, err)
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err = expired.GenerateToken("user-1", "artisan")
	require.NoError(t, err)
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.Error(t, ValidatePassword("short"))
}
