package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHub(t *testing.T) (*Hub, *auth.TokenManager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	tokens := auth.NewTokenManager("ws-secret", time.Hour, auth.AudienceUser)
	router := gin.New()
	router.GET("/ws", NewHandler(hub, tokens, nil).ServeWS)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return hub, tokens, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url, token string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversEventToUser(t *testing.T) {
	hub, tokens, url := setupHub(t)
	token, err := tokens.GenerateToken("user-1", "artisan")
	require.NoError(t, err)

	conn := dial(t, url, token)
	require.Eventually(t, func() bool { return hub.IsOnline("user-1") }, time.Second, 10*time.Millisecond)

	hub.NotifyUser("user-1", services.NewEvent("match_created", map[string]string{"match_id": "m-1"}))
	// чужое событие не приходит
	hub.NotifyUser("user-2", services.NewEvent("new_message", nil))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "match_created", event.Type)
	assert.Equal(t, "m-1", event.Data["match_id"])
}

func TestHub_NewConnectionReplacesOld(t *testing.T) {
	hub, tokens, url := setupHub(t)
	token, err := tokens.GenerateToken("user-1", "particulier")
	require.NoError(t, err)

	first := dial(t, url, token)
	require.Eventually(t, func() bool { return hub.IsOnline("user-1") }, time.Second, 10*time.Millisecond)

	second := dial(t, url, token)

	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = first.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	assert.Equal(t, 1, hub.ClientCount())

	hub.NotifyUser("user-1", services.NewEvent("credits_updated", nil))
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := second.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "credits_updated")
}

func TestHandler_RejectsMissingOrBadToken(t *testing.T) {
	_, _, url := setupHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.swipetonpro.fr/"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://app.swipetonpro.fr")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
