package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML overlay layout. Empty fields leave the current
// value untouched.
type fileConfig struct {
	Server struct {
		Port               string   `yaml:"port"`
		RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
		Locale             string   `yaml:"locale"`
		TrustedProxies     []string `yaml:"trusted_proxies"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Backend string `yaml:"backend"`
	Memory  struct {
		SeedDir string `yaml:"seed_dir"`
	} `yaml:"memory"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
		Queue    string `yaml:"queue"`
	} `yaml:"amqp"`
	Sheets struct {
		SpreadsheetID      string `yaml:"spreadsheet_id"`
		FuelSheet          string `yaml:"fuel_sheet"`
		MaintenanceSheet   string `yaml:"maintenance_sheet"`
		ServiceAccountFile string `yaml:"service_account_file"`
	} `yaml:"sheets"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
	Sync struct {
		BatchSize int    `yaml:"batch_size"`
		Interval  string `yaml:"interval"`
	} `yaml:"sync"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Server.Port)
	setInt(&c.RateLimitPerMinute, fc.Server.RateLimitPerMinute)
	setString(&c.Locale, fc.Server.Locale)
	if len(fc.Server.TrustedProxies) > 0 {
		c.TrustedProxies = fc.Server.TrustedProxies
	}
	setString(&c.LogLevel, fc.Log.Level)
	setString(&c.LogFormat, fc.Log.Format)
	setString(&c.DataBackend, fc.Backend)
	setString(&c.MemorySeedDir, fc.Memory.SeedDir)
	setString(&c.SQLiteDBPath, fc.SQLite.Path)
	setString(&c.AMQPURL, fc.AMQP.URL)
	setString(&c.AMQPExchange, fc.AMQP.Exchange)
	setString(&c.AMQPQueue, fc.AMQP.Queue)
	setString(&c.GoogleSpreadsheetID, fc.Sheets.SpreadsheetID)
	setString(&c.GoogleSheetName, fc.Sheets.FuelSheet)
	setString(&c.GoogleMaintenanceSheet, fc.Sheets.MaintenanceSheet)
	setString(&c.GoogleServiceAccountFile, fc.Sheets.ServiceAccountFile)
	setInt(&c.SyncBatchSize, fc.Sync.BatchSize)

	if err := setDuration(&c.CacheTTL, fc.Cache.TTL); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	if err := setDuration(&c.SyncInterval, fc.Sync.Interval); err != nil {
		return fmt.Errorf("sync.interval: %w", err)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
