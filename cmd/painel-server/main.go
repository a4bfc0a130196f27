package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/internados/internados/internal/config"
	"github.com/internados/internados/internal/domain/inpatient"
	"github.com/internados/internados/internal/domain/reference"
	"github.com/internados/internados/internal/platform/auth"
	"github.com/internados/internados/internal/platform/db"
	"github.com/internados/internados/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "painel-server",
		Short: "Painel de pacientes internados — API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// buildCredentials turns the configured fixed users into authenticator
// credentials. Users without a configured password are kept but can
// never authenticate.
func buildCredentials(cfg *config.Config) []auth.Credential {
	return []auth.Credential{
		{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Role: "admin"},
		{Username: cfg.OperatorUsername, Password: cfg.OperatorPassword, Role: "operador"},
	}
}

// newSessionStore picks Redis when REDIS_URL is configured, otherwise an
// in-memory store with a background janitor.
func newSessionStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (auth.SessionStore, error) {
	if cfg.RedisURL != "" {
		store, err := auth.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("using redis session store")
		return store, nil
	}
	store := auth.NewMemoryStore(cfg.SessionTTL)
	store.StartJanitor(ctx, time.Minute)
	return store, nil
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.QueryTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Sessions
	sessionStore, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session store")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// API group
	api := e.Group("/api")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Auth endpoints (login is the only route reachable without a session)
	authn := auth.NewAuthenticator(buildCredentials(cfg))
	authHandler := auth.NewHandler(authn, sessionStore, cfg.SessionTTL, cfg.IsProduction(), logger)
	authHandler.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("", auth.RequireSession(sessionStore))

	inpatientRepo := inpatient.NewRepoPG(pool)
	inpatientSvc := inpatient.NewService(inpatientRepo)
	inpatientHandler := inpatient.NewHandler(inpatientSvc, logger)
	inpatientHandler.RegisterRoutes(protected)

	refRepo := reference.NewRepoPG(pool)
	refSvc := reference.NewService(refRepo)
	refHandler := reference.NewHandler(refSvc, logger)
	refHandler.RegisterRoutes(protected)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
