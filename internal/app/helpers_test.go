package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"swipetonpro_backend/internal/config"
	"swipetonpro_backend/internal/payments"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/storage"
	"swipetonpro_backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer - приложение целиком за httptest.Server
type TestServer struct {
	Server  *httptest.Server
	DB      *gorm.DB
	App     *Application
	Gateway *payments.FakeGateway
	Redis   *miniredis.Miniredis
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Server.PublicURL = "http://localhost:3000"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTLHours = 1
	cfg.AdminJWT.Secret = "admin-test-secret"
	cfg.AdminJWT.TTLMinutes = 30
	cfg.Upload.MaxSize = 10 << 20
	cfg.Upload.AllowedTypes = []string{"application/pdf", "image/jpeg", "image/png"}
	cfg.Upload.ImageQuality = 80
	cfg.Stripe.Currency = "eur"
	cfg.Stripe.SuccessURL = "http://localhost:3000/success"
	cfg.Stripe.CancelURL = "http://localhost:3000/cancel"
	cfg.Security.LoginMaxAttempts = 5
	cfg.Security.LoginWindowMinutes = 15
	cfg.Credits.UnlockCost = 1
	cfg.Credits.ConnectionFeeCent = 500
	cfg.Workers.PaymentPollSeconds = 3600
	cfg.Workers.SubscriptionCheckMinutes = 60
	return cfg
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := testutil.NewTestDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/files"})
	require.NoError(t, err)

	gateway := payments.NewFakeGateway()

	application, err := New(testConfig(), db, Dependencies{
		Redis:   client,
		Storage: store,
		Gateway: gateway,
		Mail:    &MockEmailProvider{},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	application.Start(ctx)

	server := httptest.NewServer(application.Router)
	t.Cleanup(func() {
		server.Close()
		cancel()
		application.Services.MailService.Wait()
	})

	return &TestServer{
		Server:  server,
		DB:      db,
		App:     application,
		Gateway: gateway,
		Redis:   mr,
	}
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(resBody)
}

// Login логинит пользователя из testutil и возвращает токен
func (ts *TestServer) Login(t *testing.T, email string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": testutil.TestPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// AdminLogin логинит админа из testutil
func (ts *TestServer) AdminLogin(t *testing.T, email string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email":    email,
		"password": testutil.TestPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var resp dto.AdminAuthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp.AccessToken
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}
