package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bakeryconsole/backend/internal/apiclient"
	"bakeryconsole/backend/internal/cache"
	"bakeryconsole/backend/internal/config"
	"bakeryconsole/backend/internal/httpapi"
	"bakeryconsole/backend/internal/poller"
	"bakeryconsole/backend/internal/service"
	"bakeryconsole/backend/internal/store"
	"bakeryconsole/backend/internal/store/memory"
	pgstore "bakeryconsole/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat, nil)
	if err := validateConfig(cfg); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 2)

	client, err := newBackendClient(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("backend client")
	}
	svc := service.New(client, logger)

	var archive store.SnapshotArchive
	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL, cfg.ArchiveLimit)
		if err != nil {
			logger.WithError(err).Fatal("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory archive")
		}
		archive = pg
		closers = append(closers, pg.Close)
		logger.Info("archive: postgres")
	} else {
		archive = memory.New(cfg.ArchiveLimit)
		logger.Info("archive: in-memory")
	}

	pollOpts := poller.Options{
		Interval: cfg.PollInterval,
		CacheTTL: cfg.SnapshotTTL,
		Archive:  archive,
		Logger:   logger,
	}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisSnapshotCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.WithError(err).Warn("redis unavailable, polling without a shared cache")
		} else {
			pollOpts.Cache = redisCache
			pollOpts.Lock = redisCache.Locker()
			closers = append(closers, redisCache.Close)
			logger.Info("cache: redis")
		}
	} else {
		logger.Info("cache: none")
	}

	dashboard := poller.New(svc.OwnerDashboard, pollOpts)
	if err := dashboard.Warm(ctx); err != nil {
		logger.WithError(err).Warn("could not warm dashboard from cache")
	}

	runCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	go func() {
		if err := dashboard.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("poller stopped")
		}
	}()

	api := httpapi.New(svc, dashboard, archive, httpapi.Options{
		AllowedOrigin: cfg.AllowedOrigin,
		TokenHash:     cfg.ConsoleTokenHash,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.Address()).Info("console backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	stopPolling()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.WithError(err).Warn("close error")
		}
	}

	logger.Info("server stopped")
}

// newBackendClient builds the upstream client. A 401 is logged and the
// configured token stays in place for later calls.
func newBackendClient(cfg config.Config, logger logrus.FieldLogger) (*apiclient.Client, error) {
	return apiclient.New(apiclient.Options{
		BaseURL: cfg.BackendBaseURL,
		Token:   apiclient.NewStaticToken(cfg.BackendToken),
		Timeout: cfg.BackendTimeout,
		Logger:  logger,
		OnUnauthorized: func() {
			logger.Warn("backend rejected the console token")
		},
	})
}

func validateConfig(cfg config.Config) error {
	base, err := url.Parse(cfg.BackendBaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute http(s) url, got %q", cfg.BackendBaseURL)
	}
	if cfg.ConsoleTokenHash != "" && !httpapi.ValidTokenHash(cfg.ConsoleTokenHash) {
		return fmt.Errorf("CONSOLE_TOKEN_HASH must be a bcrypt hash")
	}
	if cfg.PollInterval < time.Second {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be at least 1")
	}
	return nil
}
