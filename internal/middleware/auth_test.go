package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAuthenticator struct {
	admins map[string]*models.Admin
}

func (s stubAuthenticator) Authenticate(db *gorm.DB, token string) (*models.Admin, error) {
	if admin, ok := s.admins[token]; ok {
		return admin, nil
	}
	return nil, apperrors.ErrInvalidToken
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_UserTypes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("user-secret", time.Hour, auth.AudienceUser)
	adminTokens := auth.NewTokenManager("admin-secret", time.Hour, auth.AudienceAdmin)

	r := gin.New()
	r.GET("/projects", AuthMiddleware(tokens), RequireUserType(models.UserTypeParticulier), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	clientToken, err := tokens.GenerateToken("client-1", string(models.UserTypeParticulier))
	require.NoError(t, err)
	artisanToken, err := tokens.GenerateToken("artisan-1", string(models.UserTypeArtisan))
	require.NoError(t, err)
	foreignToken, err := adminTokens.GenerateToken("admin-1", string(models.AdminRoleSuperAdmin))
	require.NoError(t, err)

	w := perform(r, http.MethodGet, "/projects", clientToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client-1", w.Body.String())

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/projects", artisanToken).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/projects", "").Code)
	// админский токен не подходит к пользовательским маршрутам
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/projects", foreignToken).Code)
}

func TestAdminAuthMiddleware_Permissions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authenticator := stubAuthenticator{admins: map[string]*models.Admin{
		"root":    {Role: models.AdminRoleSuperAdmin},
		"support": {Role: models.AdminRoleSupport, Permissions: []string{auth.PermissionManageReports}},
	}}

	r := gin.New()
	r.Use(DBMiddleware(&gorm.DB{}))
	admin := r.Group("/admin", AdminAuthMiddleware(authenticator))
	admin.GET("/reports", RequirePermission(auth.PermissionManageReports), func(c *gin.Context) { c.Status(http.StatusOK) })
	admin.GET("/users", RequirePermission(auth.PermissionManageUsers), func(c *gin.Context) { c.Status(http.StatusOK) })
	admin.GET("/admins", RequireSuperAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/admin/reports", "support").Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/admin/users", "support").Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/admin/admins", "support").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/admin/users", "root").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/admin/admins", "root").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/admin/users", "unknown").Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.swipetonpro.fr"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.swipetonpro.fr")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.swipetonpro.fr", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = perform(r, http.MethodGet, "/ping", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
