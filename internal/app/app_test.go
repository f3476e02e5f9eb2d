package app

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/payments"
	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

func TestHealth(t *testing.T) {
	ts := NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"database":"ok"`)
	assert.Contains(t, body, `"redis":"ok"`)

	res, _ = ts.SendRequest(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRegisterAndMe(t *testing.T) {
	ts := NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "Paul@Example.fr",
		"password":   "motdepasse1",
		"first_name": "Paul",
		"user_type":  "artisan",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	registered := decode[dto.AuthResponse](t, body)
	assert.Equal(t, "paul@example.fr", registered.User.Email)
	assert.Equal(t, models.UserStatusGhost, registered.User.Status)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/auth/me", registered.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "paul@example.fr")

	// повтор - 409
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "paul@example.fr",
		"password":   "motdepasse1",
		"first_name": "Paul",
		"user_type":  "artisan",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// невалидный user_type - 422 с деталями по полю
	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "x@example.fr",
		"password":   "motdepasse1",
		"first_name": "X",
		"user_type":  "plombier",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "user_type")

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLoginThrottling(t *testing.T) {
	ts := NewTestServer(t)
	artisan := testutil.CreateArtisan(t, ts.DB, 0)

	for i := 0; i < 5; i++ {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": artisan.Email, "password": "wrong-password",
		})
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": artisan.Email, "password": testutil.TestPassword,
	})
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Contains(t, body, "retry_after_seconds")

	ts.Redis.FastForward(16 * time.Minute)
	ts.Login(t, artisan.Email)
}

func TestSwipeMatchUnlockChat(t *testing.T) {
	ts := NewTestServer(t)
	artisan := testutil.CreateArtisan(t, ts.DB, 3)
	client := testutil.CreateParticulier(t, ts.DB)
	testutil.CreateProject(t, ts.DB, client.ID)

	artisanToken := ts.Login(t, artisan.Email)
	clientToken := ts.Login(t, client.Email)

	// клиент слушает события
	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/ws?token=" + clientToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return ts.App.Hub.IsOnline(client.ID) }, time.Second, 10*time.Millisecond)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/swipes/candidates", artisanToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, client.ID)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/swipes", artisanToken, map[string]string{
		"target_id": client.ID, "action": "like",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	first := decode[dto.SwipeResponse](t, body)
	assert.False(t, first.IsMatch)
	assert.Equal(t, 2, first.CreditsRemaining)

	// алиас старого клиента
	res, body = ts.SendRequest(t, http.MethodPost, "/api/swipe", clientToken, map[string]string{
		"target_id": artisan.ID, "action": "like",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	second := decode[dto.SwipeResponse](t, body)
	require.True(t, second.IsMatch)
	require.NotNil(t, second.MatchID)
	matchID := *second.MatchID

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event services.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.NotificationMatchCreated, event.Type)

	// чат закрыт до разблокировки
	message := map[string]string{"match_id": matchID, "content": "Bonjour, quand êtes-vous disponible ?"}
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/messages", clientToken, message)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/matches/"+matchID+"/unlock", artisanToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	unlock := decode[dto.UnlockResponse](t, body)
	assert.Equal(t, 1, unlock.CreditsSpent)
	assert.Equal(t, 1, unlock.CreditsRemaining)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/matches/"+matchID+"/unlock", artisanToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, decode[dto.UnlockResponse](t, body).AlreadyUnlocked)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/messages", clientToken, message)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/messages/"+matchID, artisanToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "quand êtes-vous disponible")

	// посторонний не видит переписку
	stranger := testutil.CreateParticulier(t, ts.DB)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/messages/"+matchID, ts.Login(t, stranger.Email), nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/matches", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"is_chat_unlocked":true`)
}

func TestProjectsAreParticulierOnly(t *testing.T) {
	ts := NewTestServer(t)
	artisanToken := ts.Login(t, testutil.CreateArtisan(t, ts.DB, 0, "plombier").Email)
	clientToken := ts.Login(t, testutil.CreateParticulier(t, ts.DB).Email)

	project := map[string]interface{}{
		"title":       "Fuite sous l'évier",
		"professions": []string{"plombier"},
		"city":        "Lyon",
	}

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/projects", artisanToken, project)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/projects", clientToken, project)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	created := decode[models.Project](t, body)

	// артизан видит открытый проект по своей профессии
	res, body = ts.SendRequest(t, http.MethodGet, "/api/projects", artisanToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, created.ID)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/projects/"+created.ID+"/close", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"status":"closed"`)
}

func TestCreditPurchaseFlow(t *testing.T) {
	ts := NewTestServer(t)
	artisan := testutil.CreateArtisan(t, ts.DB, 0)
	token := ts.Login(t, artisan.Email)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/subscription/packs", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "unlimited")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/credits/purchase", token, map[string]int{"credits": 10})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	checkout := decode[dto.CheckoutResponse](t, body)
	require.NotEmpty(t, checkout.SessionID)
	assert.NotEmpty(t, checkout.CheckoutURL)

	statusPath := "/api/payments/" + checkout.SessionID + "/status"
	res, body = ts.SendRequest(t, http.MethodGet, statusPath, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.False(t, decode[dto.PaymentStatusResponse](t, body).Applied)

	ts.Gateway.SetStatus(checkout.SessionID, payments.SessionPaid)

	for i := 0; i < 2; i++ {
		res, body = ts.SendRequest(t, http.MethodGet, statusPath, token, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}

	res, body = ts.SendRequest(t, http.MethodGet, "/api/subscription/current", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 10, decode[dto.SubscriptionStatusResponse](t, body).CurrentCredits)
}

func TestAdminFlow(t *testing.T) {
	ts := NewTestServer(t)
	super := testutil.CreateAdmin(t, ts.DB, models.AdminRoleSuperAdmin)
	support := testutil.CreateAdmin(t, ts.DB, models.AdminRoleSupport)
	artisan := testutil.CreateArtisan(t, ts.DB, 0)

	superToken := ts.AdminLogin(t, super.Email)
	supportToken := ts.AdminLogin(t, support.Email)

	// пользовательский токен в админку не пускает
	userToken := ts.Login(t, artisan.Email)
	res, _ := ts.SendRequest(t, http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/admin/stats", superToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, int64(2), decode[dto.StatsResponse](t, body).Admins)

	// support без прав не управляет пользователями
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/admin/users", supportToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/admin/logs", supportToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/admin/users/"+artisan.ID+"/credits", superToken, map[string]interface{}{
		"amount": 25, "reason": "geste commercial",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, 25, decode[dto.AdjustCreditsResponse](t, body).Credits)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/admin/users/"+artisan.ID+"/suspend", superToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": artisan.Email, "password": testutil.TestPassword,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/admin/logs?limit=50", superToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var logs struct {
		Logs []models.AuditLog `json:"logs"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &logs))
	assert.NotEmpty(t, logs.Logs)
}

func TestAdminInvitationFlow(t *testing.T) {
	ts := NewTestServer(t)
	super := testutil.CreateAdmin(t, ts.DB, models.AdminRoleSuperAdmin)
	superToken := ts.AdminLogin(t, super.Email)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/admin/admins/invite", superToken, map[string]interface{}{
		"email":       "moderateur@swipetonpro.fr",
		"role":        "admin",
		"permissions": []string{auth.PermissionValidateDocuments},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	invitation := decode[dto.InvitationResponse](t, body)
	require.NotEmpty(t, invitation.Token)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/admin/invitations/accept", "", map[string]string{
		"token":    invitation.Token,
		"password": "nouveau-mdp-123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email": "moderateur@swipetonpro.fr", "password": "nouveau-mdp-123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	modToken := decode[dto.AdminAuthResponse](t, body).AccessToken

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/admin/documents/pending", modToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// super_admin не удаляет сам себя
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/admin/admins/"+super.ID, superToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/admin/admins/"+invitation.Admin.ID, superToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestNotificationsPersistForOfflineUsers(t *testing.T) {
	ts := NewTestServer(t)
	artisan := testutil.CreateArtisan(t, ts.DB, 5)
	client := testutil.CreateParticulier(t, ts.DB)
	testutil.CreateProject(t, ts.DB, client.ID)

	artisanToken := ts.Login(t, artisan.Email)
	clientToken := ts.Login(t, client.Email)

	// никто не подключен к ws, события только в базе
	res, body := ts.SendRequest(t, http.MethodPost, "/api/swipes", artisanToken, map[string]string{
		"target_id": client.ID, "action": "like",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	res, body = ts.SendRequest(t, http.MethodPost, "/api/swipes", clientToken, map[string]string{
		"target_id": artisan.ID, "action": "like",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/notifications", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	list := decode[dto.NotificationListResponse](t, body)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, models.NotificationMatchCreated, list.Notifications[0].Type)
	assert.EqualValues(t, 1, list.UnreadCount)
	notificationID := list.Notifications[0].ID

	// чужое уведомление не найти
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/notifications/"+notificationID+"/read", artisanToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/notifications/"+notificationID+"/read", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/notifications?unread=true", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	list = decode[dto.NotificationListResponse](t, body)
	assert.Empty(t, list.Notifications)
	assert.Zero(t, list.UnreadCount)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/notifications/read-all", artisanToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	updated := decode[map[string]int64](t, body)
	assert.EqualValues(t, 1, updated["updated"])
}
