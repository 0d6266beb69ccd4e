package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/config"
	"github.com/siriuscareer/career-admin/internal/database"
	"github.com/siriuscareer/career-admin/internal/handler"
	"github.com/siriuscareer/career-admin/internal/logger"
	"github.com/siriuscareer/career-admin/internal/middleware"
	"github.com/siriuscareer/career-admin/internal/repository"
	"github.com/siriuscareer/career-admin/internal/router"
	"github.com/siriuscareer/career-admin/internal/service"
	"github.com/siriuscareer/career-admin/internal/validator"
)

const rateLimitPrefix = "career-admin:ratelimit"

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.AppName)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("version", cfg.AppVersion).
		Msg("Starting Career Admin API")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Apply Migrations ──────────────────────────────────────────────
	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate schema")
		}
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	checks := map[string]handler.Check{
		"postgres": pool.Ping,
	}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository()
	testRepo := repository.NewTestRepository(questionRepo)

	// ─── Initialize Services ──────────────────────────────────────────
	testService := service.NewTestService(pool, testRepo, questionRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Test:   handler.NewTestHandler(testService, log),
		System: handler.NewSystemHandler(cfg.AppName, cfg.AppVersion, checks, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, newLimiter(cfg, rdb, log), cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// newLimiter picks the shared Redis window when Redis is configured and the
// in-process bucket otherwise. Returns nil when limiting is disabled.
func newLimiter(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) middleware.Limiter {
	if cfg.RateLimitPerMinute <= 0 {
		log.Info().Msg("Rate limiting disabled")
		return nil
	}
	if rdb != nil {
		return middleware.NewRedisRateLimiter(rdb, rateLimitPrefix, cfg.RateLimitPerMinute, time.Minute)
	}
	return middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
