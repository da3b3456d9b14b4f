package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"notify-gate.backend/internal/audit"
	"notify-gate.backend/internal/config"
	pgds "notify-gate.backend/internal/infrastructure/datasources/postgres"
	"notify-gate.backend/internal/infrastructure/repositories"
	"notify-gate.backend/internal/interfaces/http/handlers"
	"notify-gate.backend/internal/interfaces/http/middleware"
	"notify-gate.backend/internal/usecases"
	"notify-gate.backend/pkg/jwt"
	"notify-gate.backend/pkg/logger"
	"notify-gate.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	openSQL   = func(cfg config.DatabaseConfig) (*sql.DB, error) { return pgds.NewConnection(cfg) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Separate raw connection for liveness probing so health checks never
	// compete with the ORM's prepared statement cache.
	sqlDB, err := openSQL(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer sqlDB.Close()
	log.Println("connected to PostgreSQL")

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	orgRepo := repositories.NewOrganizationRepository(db)
	apiKeyRepo := repositories.NewApiKeyRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	auditRepo := repositories.NewAuditEventRepository(db)

	// The audit registry is assembled once here and immutable afterwards.
	auditor := audit.NewDispatcher(audit.DefaultRegistry(auditRepo))

	rateLimiter := redis.NewRateLimiter(redis.GetClient())

	// Usecases
	apiKeyUsecase := usecases.NewApiKeyUsecase(apiKeyRepo, orgRepo, rateLimiter, auditor, cfg.RateLimit)
	notificationUsecase := usecases.NewNotificationUsecase(notificationRepo)
	organizationUsecase := usecases.NewOrganizationUsecase(orgRepo)
	auditQueryUsecase := usecases.NewAuditQueryUsecase(auditRepo)

	// Handlers
	deps := routeDeps{
		healthHandler:       handlers.NewHealthHandler(sqlDB, redis.GetClient()),
		validateHandler:     handlers.NewValidateHandler(apiKeyUsecase),
		notificationHandler: handlers.NewNotificationHandler(notificationUsecase),
		organizationHandler: handlers.NewOrganizationHandler(organizationUsecase),
		apiKeyHandler:       handlers.NewApiKeyHandler(apiKeyUsecase),
		auditHandler:        handlers.NewAuditHandler(auditQueryUsecase),

		adminAuth: middleware.AdminAuth(jwtService),
		sendAuth:  middleware.ApiKeyAuth(apiKeyUsecase, "notifications:send"),
		readAuth:  middleware.ApiKeyAuth(apiKeyUsecase, "notifications:read"),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerOpsRoutes(r, deps)
	registerAPIV1Routes(r, deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down server...")
		os.Exit(0)
	}()

	log.Printf("notify-gate starting on port %s", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
