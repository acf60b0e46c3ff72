package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/adapters/messaging/rabbitmq"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/SscSPs/bank_backoffice_api/internal/core/ports/events"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_backoffice_api/internal/core/services"
	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/SscSPs/bank_backoffice_api/internal/handlers"
	"github.com/SscSPs/bank_backoffice_api/internal/middleware"
	"github.com/SscSPs/bank_backoffice_api/internal/platform/config"
	"github.com/SscSPs/bank_backoffice_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_backoffice_api/internal/repositories/memory"
	"github.com/SscSPs/bank_backoffice_api/internal/utils"
	"github.com/SscSPs/bank_backoffice_api/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	systemUserID        = "00000000-0000-0000-0000-000000000000"
	vaultAccountNumber  = "0000000000"
	shutdownGracePeriod = 10 * time.Second
)

// @title Bank Back-Office API
// @version 1.0
// @description Accounts, transactions and account lifecycle for bank back-office staff and customers.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := dto.RegisterValidators(); err != nil {
		logger.Error("Failed to register request validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	repos, cleanupStorage, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStorage()

	publisher := setupPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing event publisher", slog.String("error", err.Error()))
		}
	}()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := serviceContainer.User.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Error("Failed to bootstrap admin user", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Admin user ready", slog.String("user_id", admin.UserID))
	}

	limiters, closeRedis, err := setupLimiters(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize rate limiters", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRedis()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", handlers.IdempotencyKeyHeader, middleware.RequestIDHeader)
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Retry-After", "X-RateLimit-Remaining"}

	// Global middleware (cors, logging, recovery, analytics)
	r.Use(
		cors.New(corsConfig),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, limiters)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}
}

// setupStorage builds the repositories for the configured driver and returns a cleanup func.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore(cfg.LockTimeout)
		if err := seedMemoryStore(store, cfg); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewRepositoryProvider(store), func() {}, nil

	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")

		if cfg.RunMigrations {
			logger.Info("Running database migrations...")
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
				database.ClosePgxPool(dbPool)
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		return pgsql.NewRepositoryProvider(dbPool, cfg.LockTimeout), func() { database.ClosePgxPool(dbPool) }, nil
	}
}

// seedMemoryStore adds the system user and vault account the migrations create for PostgreSQL.
func seedMemoryStore(store *memory.Store, cfg *config.Config) error {
	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: systemUserID, LastUpdatedAt: now, LastUpdatedBy: systemUserID}

	store.SeedUser(domain.User{
		UserID:       systemUserID,
		Name:         "System",
		Email:        "system@bank.internal",
		PasswordHash: "!",
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
		AuditFields:  audit,
	})
	if cfg.VaultAccountID == "" {
		return nil
	}
	return store.SeedAccount(domain.Account{
		AccountID:     cfg.VaultAccountID,
		UserID:        systemUserID,
		AccountNumber: vaultAccountNumber,
		AccountType:   domain.AccountTypeCurrent,
		Balance:       decimal.Zero,
		Status:        domain.AccountStatusActive,
		AuditFields:   audit,
	})
}

// setupPublisher connects to RabbitMQ when configured and falls back to a no-op publisher.
func setupPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL is empty, domain events will not be published")
		return rabbitmq.NoopPublisher{Logger: logger}
	}
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, domain events will not be published", slog.String("error", err.Error()))
		return rabbitmq.NoopPublisher{Logger: logger}
	}
	return publisher
}

// setupLimiters builds the API and login limiters, sharing counters through redis when configured.
func setupLimiters(cfg *config.Config, logger *slog.Logger) (handlers.Limiters, func(), error) {
	var redisClient *redis.Client
	closeRedis := func() {}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return handlers.Limiters{}, closeRedis, err
		}
		redisClient = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Error("Redis unreachable, falling back to in-memory rate limiting", slog.String("error", err.Error()))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			closeRedis = func() { _ = redisClient.Close() }
		}
	}

	apiLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, redisClient, "bank_api")
	if err != nil {
		return handlers.Limiters{}, closeRedis, err
	}
	loginLimiter, err := middleware.NewRateLimiter(cfg.LoginRateLimit, redisClient, "bank_login")
	if err != nil {
		return handlers.Limiters{}, closeRedis, err
	}
	return handlers.Limiters{API: apiLimiter, Login: loginLimiter}, closeRedis, nil
}
