package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"swipetonpro_backend/internal/email"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesGhostWithProfile(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Register(env.db, &dto.RegisterRequest{
		Email:       "  Paul.Artisan@Test.fr ",
		Password:    "motdepasse1",
		FirstName:   "Paul",
		LastName:    "Martin",
		UserType:    string(models.UserTypeArtisan),
		CompanyName: "Martin Plomberie",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "paul.artisan@test.fr", resp.User.Email)
	assert.Equal(t, models.UserStatusGhost, resp.User.Status)
	require.NotNil(t, resp.User.ArtisanProfile)
	assert.Equal(t, models.ValidationStatusPending, resp.User.ArtisanProfile.ValidationStatus)

	_, err = env.auth.Register(env.db, &dto.RegisterRequest{
		Email:     "paul.artisan@test.fr",
		Password:  "motdepasse1",
		FirstName: "Paul",
		LastName:  "Martin",
		UserType:  string(models.UserTypeParticulier),
	})
	requireAppError(t, err, http.StatusConflict)

	env.mailer.Wait()
	assert.Equal(t, []string{email.TemplateWelcome}, env.mail.templates())
}

func TestLogin_LockedAfterFiveFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateParticulier(t, env.db)

	for i := 0; i < 5; i++ {
		_, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Email: user.Email, Password: "wrong-password"})
		requireAppError(t, err, http.StatusUnauthorized)
	}

	// шестая попытка блокируется даже с верным паролем
	_, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
	appErr := requireAppError(t, err, http.StatusTooManyRequests)
	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Greater(t, details["retry_after_seconds"], 0)

	// после окна вход снова доступен и счетчик сбрасывается
	env.redis.FastForward(16 * time.Minute)
	resp, err := env.auth.Login(ctx, env.db, &dto.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
	require.NoError(t, err)
	assert.NotNil(t, resp.User.LastLogin)
}

func TestLogin_SuspendedUserForbidden(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateParticulier(t, env.db)
	require.NoError(t, env.userRepo.UpdateStatus(env.db, user.ID, models.UserStatusSuspended))

	_, err := env.auth.Login(context.Background(), env.db, &dto.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
	requireAppError(t, err, http.StatusForbidden)
}

func TestAdminLogin_AuditsAndAuthenticates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.CreateAdmin(t, env.db, models.AdminRoleAdmin)

	_, err := env.adminAuth.Login(ctx, env.db, &dto.AdminLoginRequest{Email: admin.Email, Password: "nope"}, &dto.RequestMeta{IP: "10.0.0.1"})
	requireAppError(t, err, http.StatusUnauthorized)

	resp, err := env.adminAuth.Login(ctx, env.db, &dto.AdminLoginRequest{Email: admin.Email, Password: testutil.TestPassword}, &dto.RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)

	authed, err := env.adminAuth.Authenticate(env.db, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, authed.ID)

	logs, err := env.audit.List(env.db, &dto.LogsFilter{Limit: 10})
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Contains(t, actions, AuditLoginFailed)
	assert.Contains(t, actions, AuditLoginSuccess)

	// токен пользователя не подходит к админке
	userResp, err := env.auth.Register(env.db, &dto.RegisterRequest{
		Email: "client@test.fr", Password: "motdepasse1", FirstName: "A", LastName: "B", UserType: "particulier",
	})
	require.NoError(t, err)
	_, err = env.adminAuth.Authenticate(env.db, userResp.AccessToken)
	requireAppError(t, err, http.StatusUnauthorized)
}
