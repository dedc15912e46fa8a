package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/ideabox/internal/auth"
	"github.com/BradenHooton/ideabox/internal/background"
	"github.com/BradenHooton/ideabox/internal/config"
	"github.com/BradenHooton/ideabox/internal/database"
	"github.com/BradenHooton/ideabox/internal/handlers"
	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/BradenHooton/ideabox/internal/middleware"
	"github.com/BradenHooton/ideabox/internal/query"
	"github.com/BradenHooton/ideabox/internal/repositories"
	"github.com/BradenHooton/ideabox/internal/repositories/memory"
	"github.com/BradenHooton/ideabox/internal/routes"
	"github.com/BradenHooton/ideabox/internal/services"
	"github.com/BradenHooton/ideabox/internal/session"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// revocationStore is what logout and the auth middleware need from a
// token revocation backend.
type revocationStore interface {
	services.TokenRevoker
	auth.TokenRevocationChecker
}

// storage groups the repositories of one storage driver.
type storage struct {
	users       services.UserRepository
	ideas       services.IdeaRepository
	categories  services.CategoryRepository
	audit       services.AuditLogRepository
	revocations revocationStore
	health      map[string]routes.HealthChecker
	close       func()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.Server.Env, cfg.Server.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	metrics.Init()

	store, err := openStorage(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.close()

	if cfg.Redis.URL != "" {
		redisStore, err := session.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisStore.Close()
		store.revocations = redisStore
		store.health["redis"] = redisStore.Ping
		logger.Info("token revocation backed by redis")
	}

	// Initialize services
	audit := services.NewAuditService(store.audit, logger)
	accounts := services.NewAccountService(store.users, audit, logger)
	categories := services.NewCategoryService(store.categories, audit, logger)
	ideas := services.NewIdeaService(store.ideas, categories, logger)
	voting := services.NewVotingService(store.ideas, logger)
	comments := services.NewCommentService(store.ideas, audit, logger)
	moderation := services.NewModerationService(store.ideas, audit, logger)
	admin := services.NewAdminService(accounts, store.ideas, logger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)
	authService := services.NewAuthService(accounts, tokenManager, store.revocations, audit, logger, cfg.Server.Env)

	// Bootstrap categories and the first admin
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := categories.SeedDefaults(ctx, cfg.Bootstrap.DefaultCategories); err != nil {
		logger.Error("failed to seed categories", slog.Any("error", err))
	}
	if err := accounts.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	ideaHandler := handlers.NewIdeaHandler(ideas, voting, comments, query.NewEnricher(accounts, logger))
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, ipConfig),
		Ideas:      ideaHandler,
		Profile:    handlers.NewProfileHandler(accounts),
		Categories: handlers.NewCategoryHandler(categories),
		Users:      handlers.NewUserHandler(accounts),
		Admin:      handlers.NewAdminHandler(admin, moderation, ideaHandler),
		Audit:      handlers.NewAuditHandler(audit),
	}

	authenticate := auth.Authenticate(tokenManager, accounts, store.revocations,
		auth.RevocationConfig{FailClosed: cfg.Server.Env == "production"}, logger)

	router := routes.NewRouter(routes.RouterConfig{
		Env:            cfg.Server.Env,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LoginRateLimit: middleware.RateLimitConfig{
			RequestsPerMinute: cfg.Server.LoginRateLimit,
			IPConfig:          ipConfig,
		},
		Health: store.health,
	}, h, authenticate, logger)

	// Initialize cleanup manager
	tasks := []background.Task{background.TempPasswordTask(accounts, cfg.Auth.TempPasswordTTL)}
	if cleaner, ok := store.revocations.(background.ExpiredRevocationCleaner); ok {
		tasks = append(tasks, background.RevocationTask(cleaner))
	}
	cleanupManager := background.NewCleanupManager(logger, cfg.Auth.TempPasswordSweepInterval, tasks...)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		return
	}

	logger.Info("server stopped gracefully")
}

// newLogger uses JSON output in production and text elsewhere.
func newLogger(env, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStorage connects the configured storage driver. The postgres driver
// also runs pending migrations.
func openStorage(cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		ideas := memory.NewIdeaStore()
		return &storage{
			users:       memory.NewUserStore(),
			ideas:       ideas,
			categories:  memory.NewCategoryStore(ideas),
			audit:       memory.NewAuditStore(),
			revocations: session.NewMemoryStore(),
			health:      map[string]routes.HealthChecker{},
			close:       func() {},
		}, nil
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &storage{
		users:       repositories.NewUserRepository(db),
		ideas:       repositories.NewIdeaRepository(db),
		categories:  repositories.NewCategoryRepository(db),
		audit:       repositories.NewAuditLogRepository(db),
		revocations: repositories.NewTokenRevocationRepository(db),
		health:      map[string]routes.HealthChecker{"database": db.HealthCheck},
		close:       db.Close,
	}, nil
}
