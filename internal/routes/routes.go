package routes

import (
	"context"
	"net/http"
	"time"

	_ "swipetonpro_backend/docs"
	"swipetonpro_backend/internal/handlers"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Options - то, что маршрутам нужно кроме хэндлеров
type Options struct {
	UserAuth  gin.HandlerFunc
	AdminAuth gin.HandlerFunc

	// для /health
	DB    *gorm.DB
	Redis redis.Cmdable

	// каталог локального хранилища, раздается как /files; пусто - не раздаем
	FilesDir string
}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
	opts Options,
) {
	ginRouter.GET("/health", healthHandler(opts.DB, opts.Redis))
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.FilesDir != "" {
		ginRouter.Static("/files", opts.FilesDir)
	}

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.UserHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.ProfileHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.ProjectHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.SwipeHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.MatchHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.DocumentHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.CreditHandler.RegisterRoutes(api, opts.UserAuth)
		appHandlers.NotificationHandler.RegisterRoutes(api, opts.UserAuth)
	}

	admin := api.Group("/admin")
	{
		appHandlers.AdminHandler.RegisterRoutes(admin, opts.AdminAuth)
		appHandlers.AdminModerationHandler.RegisterRoutes(admin, opts.AdminAuth)
		appHandlers.AdminTeamHandler.RegisterRoutes(admin, opts.AdminAuth)
	}

	// токен проверяет сам ws.Handler: браузер не умеет слать заголовки при upgrade
	ginRouter.GET("/ws", wsHandler.ServeWS)
	logger.Info("WebSocket route /ws registered")
}

// healthHandler пингует БД и Redis. Redis не критичен: без него
// отключается только ограничение попыток входа.
func healthHandler(db *gorm.DB, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				status = http.StatusServiceUnavailable
				checks["database"] = err.Error()
			} else {
				checks["database"] = "ok"
			}
		}

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
			} else {
				checks["redis"] = "ok"
			}
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
