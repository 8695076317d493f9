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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/harentsoaR/healthdesk-api/internal/config"
	"github.com/harentsoaR/healthdesk-api/internal/handlers"
	"github.com/harentsoaR/healthdesk-api/internal/logging"
	"github.com/harentsoaR/healthdesk-api/internal/metrics"
	"github.com/harentsoaR/healthdesk-api/internal/middleware"
	"github.com/harentsoaR/healthdesk-api/internal/models"
	"github.com/harentsoaR/healthdesk-api/internal/services"
	"github.com/harentsoaR/healthdesk-api/internal/store"
	"github.com/harentsoaR/healthdesk-api/internal/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if !dotenv {
		logger.Info().Msg("no .env file found, relying on environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New("healthdesk")

	// --- Database Connection ---
	st, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}()
	instrumented := store.NewInstrumented(st, m)

	setupCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()
	if err := instrumented.EnsureUniqueIndex(setupCtx, models.AccountsCollection, "email"); err != nil {
		return fmt.Errorf("failed to ensure unique email index: %w", err)
	}

	// --- Services ---
	notifications := services.NewNotificationService(cfg.Notification, logger)
	if !notifications.Enabled() {
		logger.Info().Msg("TEXTBELT_API_KEY is not set, enquiry SMS disabled")
	}
	accounts := services.NewAccountService(instrumented, utils.NewPasswordHasher(cfg.Security.BcryptCost), logger, m)
	enquiries := services.NewEnquiryService(instrumented, notifications, logger, m)

	if err := services.SeedDefaultAdmin(setupCtx, accounts, cfg.Admin, logger); err != nil {
		return err
	}

	// --- Gin Router ---
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(accounts, enquiries, instrumented, logger, cfg.RequestTimeout)
	router, err := handlers.NewRouter(h, handlers.RouterConfig{
		AllowedOrigins: cfg.Origins(),
		TrustedProxies: cfg.TrustedProxies,
		Metrics:        m,
		RateLimiter: middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.Security.RateLimitRPS),
			Burst: cfg.Security.RateLimitBurst,
		}),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("project", cfg.ProjectName).
			Str("version", cfg.Version).
			Str("port", cfg.Port).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	notifications.Wait()
	logger.Info().Msg("server exited")
	return nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (store.Store, error) {
	if cfg.Driver == "memory" {
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}

	st, err := store.ConnectMongo(ctx, cfg.URL, cfg.Name, cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("database", cfg.Name).Msg("successfully connected to MongoDB")
	return st, nil
}
