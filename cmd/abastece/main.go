package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"abastece/internal/analytics"
	"abastece/internal/backend"
	"abastece/internal/cache"
	"abastece/internal/cli"
	apphttp "abastece/internal/http"
	applog "abastece/internal/log"
	"abastece/internal/metrics"
	"abastece/internal/services"
)

func main() {
	cli.LoadEnvFile()
	bootstrap := cli.SetupLogger(applog.ComponentApp, "info", "text")
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(applog.ComponentApp, cfg.LogLevel, cfg.LogFormat)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	m := metrics.New()
	locale := analytics.ParseLocale(cfg.Locale)
	dashboard := services.NewDashboardService(res.Store, res.Store, locale, cfg.CacheTTL, m)
	entries := services.NewEntryService(res.Store, res.Publisher, dashboard, m)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Writer:             entries,
		Reader:             dashboard,
		Logger:             logger,
		Metrics:            m,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		Ready:              res.Ping,
	})
	if err != nil {
		logger.Error("Failed to configure server", applog.FieldError, err)
		os.Exit(1)
	}

	caches := cache.NewManager()
	caches.Register(dashboard.Cache())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		caches.Wait()
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup error", applog.FieldError, err)
		}
	})
	caches.Start(ctx, cfg.CacheTTL)

	logger.Info("Starting abastece server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"locale", string(locale),
		"amqp_enabled", res.Publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
