package middleware

import (
	"errors"
	"strings"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/pkg/apperrors"
	"swipetonpro_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	userIDKey   = "userID"
	userTypeKey = "userType"
)

// AdminAuthenticator проверяет админский токен и загружает активного админа
type AdminAuthenticator interface {
	Authenticate(db *gorm.DB, token string) (*models.Admin, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthMiddleware - проверка пользовательского JWT
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := tokens.ParseToken(token)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userTypeKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireUserType пропускает только перечисленные типы пользователей
func RequireUserType(types ...models.UserType) gin.HandlerFunc {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[string(t)] = true
	}

	return func(c *gin.Context) {
		if !allowed[c.GetString(userTypeKey)] {
			apperrors.HandleError(c, apperrors.ErrInvalidUserType)
			return
		}
		c.Next()
	}
}

// AdminAuthMiddleware требует DBMiddleware раньше в цепочке
func AdminAuthMiddleware(authenticator AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(errors.New("db is not set in context")))
			return
		}

		admin, err := authenticator.Authenticate(db.(*gorm.DB), token)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.Set(string(contextkeys.AdminContextKey), admin)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), admin.ID))
		c.Next()
	}
}

// RequirePermission - super_admin проходит всегда
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := GetAdmin(c)
		if admin == nil || !admin.HasPermission(permission) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := GetAdmin(c)
		if admin == nil || admin.Role != models.AdminRoleSuperAdmin {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func GetUserType(c *gin.Context) models.UserType {
	return models.UserType(c.GetString(userTypeKey))
}

func GetAdmin(c *gin.Context) *models.Admin {
	val, ok := c.Get(string(contextkeys.AdminContextKey))
	if !ok {
		return nil
	}
	admin, _ := val.(*models.Admin)
	return admin
}
