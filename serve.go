package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolioAPI/handlers"
	"portfolioAPI/internal/config"
	"portfolioAPI/internal/content"
	"portfolioAPI/internal/logging"
	"portfolioAPI/internal/notification"
	"portfolioAPI/middleware"
	"portfolioAPI/services"
)

const dispatchWorkers = 2

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	foundEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !foundEnv {
		logger.Info("no .env file found")
	}

	site, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}
	logger.Info("content loaded",
		zap.String("path", cfg.ContentPath),
		zap.Int("projects", len(site.Projects)),
		zap.Int("progress", len(site.Progress)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		dbPool       *pgxpool.Pool
		pinger       handlers.Pinger
		activityRepo services.ActivityRepository
		contactRepo  services.ContactRepository
	)
	if cfg.HasDatabase() {
		dbPool, err = connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() {
			logger.Info("closing database connection pool")
			dbPool.Close()
		}()

		pgActivities := services.NewPgActivityRepository(dbPool)
		pgContacts := services.NewPgContactRepository(dbPool)
		if err := ensureSchema(ctx, pgActivities, pgContacts); err != nil {
			return err
		}

		pinger = dbPool
		activityRepo = pgActivities
		contactRepo = pgContacts
		logger.Info("connected to database")
	} else {
		logger.Warn("DATABASE_URL not set, running read-only")
	}

	var auth *middleware.Auth
	if cfg.ClerkSecretKey != "" {
		clerk.SetKey(cfg.ClerkSecretKey)
		auth = middleware.NewAuth(middleware.ClerkVerifier, cfg.AdminClerkIDs, logger)
		logger.Info("clerk initialized", zap.Int("admins", len(cfg.AdminClerkIDs)))
	} else {
		logger.Warn("CLERK_SECRET_KEY not set, owner endpoints disabled")
		auth = middleware.NewAuth(rejectAll, nil, logger)
	}

	var dispatcher *services.NotificationDispatcher
	if len(cfg.OwnerDeviceTokens) > 0 {
		fcmService, err := notification.NewFCMService(ctx, cfg.FCMCredentialsFile, logger)
		if err != nil {
			logger.Warn("could not initialize FCM", zap.Error(err))
		} else {
			dispatcher = services.NewNotificationDispatcher(fcmService, cfg.OwnerDeviceTokens, dispatchWorkers, logger)
			defer dispatcher.Stop()
			logger.Info("FCM push provider initialized")
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies...)
	go limiter.CleanupVisitors(ctx, time.Minute)

	middleware.InitPrometheus()

	router := handlers.NewRouter(handlers.RouterConfig{
		Progress:    handlers.NewProgressHandler(services.NewActivityService(site.Progress, activityRepo, logger), cfg.Location, logger),
		Contact:     handlers.NewContactHandler(services.NewContactService(contactRepo, dispatcher, logger), logger),
		Projects:    handlers.NewProjectsHandler(site.Projects),
		Health:      handlers.NewHealthHandler(pinger),
		Auth:        auth,
		RateLimiter: limiter,
		Logger:      logger,
		MetricsUser: cfg.MetricsUser,
		MetricsPass: cfg.MetricsPass,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server shutdown complete")
	return nil
}

func connectDB(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

type schemaOwner interface {
	EnsureSchema(ctx context.Context) error
}

func ensureSchema(ctx context.Context, repos ...schemaOwner) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, r := range repos {
		if err := r.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}

func rejectAll(ctx context.Context, token string) (string, error) {
	return "", errors.New("authentication is not configured")
}
