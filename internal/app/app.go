package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swipetonpro_backend/internal/algorithms"
	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/config"
	"swipetonpro_backend/internal/database"
	"swipetonpro_backend/internal/email"
	"swipetonpro_backend/internal/handlers"
	"swipetonpro_backend/internal/imageprocessor"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/middleware"
	"swipetonpro_backend/internal/payments"
	"swipetonpro_backend/internal/ratelimit"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/routes"
	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/storage"
	"swipetonpro_backend/internal/validator"
	"swipetonpro_backend/internal/workers"
	"swipetonpro_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies - внешние системы. Пустые поля собираются из конфига,
// тесты подставляют свои (FakeGateway, miniredis, временный каталог).
type Dependencies struct {
	Redis   redis.UniversalClient
	Storage storage.Storage
	Gateway payments.Gateway
	Mail    email.Provider
}

// Application - собранный сервер
type Application struct {
	Config   *config.Config
	DB       *gorm.DB
	Router   *gin.Engine
	Hub      *ws.Hub
	Services *services.ServiceContainer

	paymentWorker      *workers.PaymentReconciler
	subscriptionWorker *workers.SubscriptionWorker
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Env)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	application, err := New(cfg, gormDB, Dependencies{Redis: redisClient})
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg, application.Services.AdminTeamService); err != nil {
		logger.Fatal("Failed to seed first admin", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	application.Services.MailService.Wait()

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// New собирает сервисы, хэндлеры и роутер. Фоновые задачи не стартуют
// до вызова Start.
func New(cfg *config.Config, gormDB *gorm.DB, deps Dependencies) (*Application, error) {
	if err := resolveDependencies(cfg, &deps); err != nil {
		return nil, err
	}

	userTokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour, auth.AudienceUser)
	adminTokens := auth.NewTokenManager(cfg.AdminJWT.Secret, time.Duration(cfg.AdminJWT.TTLMinutes)*time.Minute, auth.AudienceAdmin)

	hub := ws.NewHub()

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, deps, hub, userTokens, adminTokens)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	opts := routes.Options{
		UserAuth:  middleware.AuthMiddleware(userTokens),
		AdminAuth: middleware.AdminAuthMiddleware(serviceContainer.AdminAuthService),
		DB:        gormDB,
		Redis:     deps.Redis,
	}
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		opts.FilesDir = local.BasePath()
	}

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, ws.NewHandler(hub, userTokens, cfg.Server.AllowedOrigins), opts)

	return &Application{
		Config:   cfg,
		DB:       gormDB,
		Router:   ginRouter,
		Hub:      hub,
		Services: serviceContainer,
		paymentWorker: workers.NewPaymentReconciler(gormDB, serviceContainer.CreditService,
			time.Duration(cfg.Workers.PaymentPollSeconds)*time.Second),
		subscriptionWorker: workers.NewSubscriptionWorker(gormDB, serviceContainer.CreditService,
			time.Duration(cfg.Workers.SubscriptionCheckMinutes)*time.Minute),
	}, nil
}

// Start запускает hub и воркеры; все останавливается отменой ctx
func (a *Application) Start(ctx context.Context) {
	go a.Hub.Run(ctx)
	a.paymentWorker.Start(ctx)
	a.subscriptionWorker.Start(ctx)
}

func resolveDependencies(cfg *config.Config, deps *Dependencies) error {
	if deps.Storage == nil {
		store, err := storage.NewStorage(storage.Config{
			Type:       cfg.Storage.Type,
			BasePath:   cfg.Storage.BasePath,
			BaseURL:    cfg.Storage.BaseURL,
			Bucket:     cfg.Storage.Bucket,
			Region:     cfg.Storage.Region,
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			Endpoint:   cfg.Storage.Endpoint,
			UseSSL:     cfg.Storage.UseSSL,
			PublicRead: cfg.Storage.PublicRead,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		deps.Storage = store
		logger.Info("Storage initialized", "type", cfg.Storage.Type)
	}

	if deps.Gateway == nil {
		gateway, err := payments.NewStripeGateway(cfg.Stripe.SecretKey)
		switch {
		case err == nil:
			deps.Gateway = gateway
		case cfg.Server.Env == "production":
			return fmt.Errorf("failed to initialize stripe: %w", err)
		default:
			logger.Warn("STRIPE_SECRET_KEY is not set, using fake payment gateway")
			deps.Gateway = payments.NewFakeGateway()
		}
	}

	if deps.Mail == nil {
		if cfg.Email.Enabled {
			deps.Mail = email.NewSMTPProvider(&email.SMTPConfig{
				Host:      cfg.Email.SMTPHost,
				Port:      cfg.Email.SMTPPort,
				Username:  cfg.Email.SMTPUsername,
				Password:  cfg.Email.SMTPPassword,
				FromEmail: cfg.Email.FromEmail,
				FromName:  cfg.Email.FromName,
				UseSSL:    cfg.Email.UseSSL,
			}, email.NewTemplateManager())
		} else {
			logger.Warn("Email is disabled, using mock provider")
			deps.Mail = &MockEmailProvider{}
		}
	}

	if deps.Redis == nil {
		return errors.New("redis client is required")
	}
	return nil
}

func initializeServices(
	cfg *config.Config,
	deps Dependencies,
	notifier services.Notifier,
	userTokens, adminTokens *auth.TokenManager,
) *services.ServiceContainer {
	limiter := ratelimit.NewLoginLimiter(deps.Redis, cfg.Security.LoginMaxAttempts,
		time.Duration(cfg.Security.LoginWindowMinutes)*time.Minute)

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	projectRepo := repositories.NewProjectRepository()
	swipeRepo := repositories.NewSwipeRepository()
	matchRepo := repositories.NewMatchRepository()
	messageRepo := repositories.NewMessageRepository()
	documentRepo := repositories.NewDocumentRepository()
	adminRepo := repositories.NewAdminRepository()
	reportRepo := repositories.NewReportRepository()
	auditRepo := repositories.NewAuditLogRepository()
	configRepo := repositories.NewConfigRepository()
	paymentRepo := repositories.NewPaymentRepository()
	notificationRepo := repositories.NewNotificationRepository()

	// --- Сервисы ---
	mailService := services.NewMailService(deps.Mail, cfg.Server.PublicURL)
	auditService := services.NewAuditService(auditRepo)
	notificationService := services.NewNotificationService(notificationRepo, notifier)
	documentService := services.NewDocumentService(documentRepo, userRepo, profileRepo, deps.Storage,
		notificationService, mailService, auditService, cfg.Upload.MaxSize, cfg.Upload.AllowedTypes)

	return &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, profileRepo, userTokens, limiter, mailService),
		UserService:    services.NewUserService(userRepo),
		ProfileService: services.NewProfileService(userRepo, profileRepo, deps.Storage, imageprocessor.NewProcessor(cfg.Upload.ImageQuality)),
		ProjectService: services.NewProjectService(projectRepo, userRepo),
		SwipeService: services.NewSwipeService(userRepo, profileRepo, projectRepo, swipeRepo, matchRepo, configRepo,
			algorithms.NewCandidateScorer(), notificationService, mailService, auditService),
		MatchService:    services.NewMatchService(matchRepo, messageRepo, userRepo, notificationService, cfg.Credits.UnlockCost),
		DocumentService: documentService,
		CreditService: services.NewCreditService(userRepo, paymentRepo, matchRepo, configRepo, deps.Gateway,
			notificationService, auditService, services.CheckoutConfig{
				Currency:           cfg.Stripe.Currency,
				SuccessURL:         cfg.Stripe.SuccessURL,
				CancelURL:          cfg.Stripe.CancelURL,
				ConnectionFeeCents: cfg.Credits.ConnectionFeeCent,
			}),
		ConfigService:       services.NewConfigService(configRepo, userRepo, auditService),
		NotificationService: notificationService,
		ReportService:       services.NewReportService(reportRepo, userRepo, auditService),
		AuditService:        auditService,
		AdminAuthService:    services.NewAdminAuthService(adminRepo, adminTokens, limiter, auditService),
		AdminService: services.NewAdminService(userRepo, profileRepo, adminRepo, matchRepo, swipeRepo, reportRepo,
			documentRepo, projectRepo, documentService, notificationService, auditService),
		AdminTeamService: services.NewAdminTeamService(adminRepo, mailService, auditService),
		MailService:      mailService,
	}
}

func initializeHandlers(cfg *config.Config, s *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:            handlers.NewAuthHandler(baseHandler, s.AuthService),
		UserHandler:            handlers.NewUserHandler(baseHandler, s.UserService, s.ReportService),
		ProfileHandler:         handlers.NewProfileHandler(baseHandler, s.ProfileService, cfg.Upload.MaxSize),
		ProjectHandler:         handlers.NewProjectHandler(baseHandler, s.ProjectService),
		SwipeHandler:           handlers.NewSwipeHandler(baseHandler, s.SwipeService),
		MatchHandler:           handlers.NewMatchHandler(baseHandler, s.MatchService, s.CreditService),
		DocumentHandler:        handlers.NewDocumentHandler(baseHandler, s.DocumentService),
		CreditHandler:          handlers.NewCreditHandler(baseHandler, s.CreditService),
		NotificationHandler:    handlers.NewNotificationHandler(baseHandler, s.NotificationService),
		AdminHandler:           handlers.NewAdminHandler(baseHandler, s.AdminAuthService, s.AdminService, s.AuditService, s.ConfigService),
		AdminModerationHandler: handlers.NewAdminModerationHandler(baseHandler, s.DocumentService, s.ReportService),
		AdminTeamHandler:       handlers.NewAdminTeamHandler(baseHandler, s.AdminTeamService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	// multipart целиком в память не грузим
	router.MaxMultipartMemory = 8 << 20
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config, team services.AdminTeamService) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	created, err := team.EnsureFirstAdmin(db, cfg.FirstAdminEmail, cfg.FirstAdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Created first super_admin", "email", cfg.FirstAdminEmail)
	}
	return nil
}
