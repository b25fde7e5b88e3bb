package main

import (
	"context"
	"fmt"
	"os"

	"abastece/internal/analytics"
	"abastece/internal/backend"
	"abastece/internal/cli"
	"abastece/internal/config"
	applog "abastece/internal/log"
	"abastece/internal/services"
	"abastece/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// Keep the tables readable: only warnings reach the terminal.
	logger := cli.SetupLogger(applog.ComponentCLI, "warn", cfg.LogFormat)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		return err
	}
	defer res.Close()

	app := &cli.App{
		Ledger: services.NewDashboardService(res.Store, res.Store, analytics.ParseLocale(cfg.Locale), cfg.CacheTTL, nil),
	}
	if backendCfg.Type == backend.SQLiteBackend {
		app.SchemaVersion = func() (uint, bool, error) {
			return storage.SchemaVersion(cfg.SQLiteDBPath)
		}
	}
	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
