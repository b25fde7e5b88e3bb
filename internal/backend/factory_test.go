package backend

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"abastece/internal/config"
	"abastece/internal/core"
)

func quietFactory() Factory {
	return NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:            "sqlite",
		SQLiteDBPath:           "/tmp/x.db",
		GoogleMaintenanceSheet: "Manutencoes",
		MemorySeedDir:          "./seed",
	}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != SQLiteBackend || got.SQLiteDBPath != "/tmp/x.db" || got.DataDirectory != "./seed" {
		t.Fatalf("unexpected config: %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sheets without id", Config{Type: SheetsBackend, GoogleServiceAccountJSON: "{}"}, true},
		{"sheets without credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "abc"}, true},
		{"sheets", Config{Type: SheetsBackend, GoogleSpreadsheetID: "abc", GoogleServiceAccountFile: "sa.json"}, false},
		{"unknown", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryBackendSeedsFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := "# date;total;price;km;fuel;notes\n2024-01-10;200;5;10000;ETANOL;first\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_fuel.txt"), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	entries, err := res.Store.ListFuelEntries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].KmEnd != 10000 || entries[0].FuelType != core.Ethanol {
		t.Fatalf("unexpected seed: %+v", entries)
	}
	if res.Publisher != nil {
		t.Fatal("memory backend must not publish")
	}
}

func TestCreateSQLiteBackendWithoutAMQP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abastece.db")
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	if res.Publisher != nil {
		t.Fatal("publisher must be nil without AMQP_URL")
	}
	if err := res.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	e := core.RawFuelEntry{ID: "a", Date: core.NewDate(2024, 1, 10), TotalValue: 200, PricePerLiter: 5, KmEnd: 10000, FuelType: core.Gasoline}
	if err := res.Store.CreateFuelEntry(context.Background(), e); err != nil {
		t.Fatalf("CreateFuelEntry() error = %v", err)
	}
	got, err := res.Store.ListFuelEntries(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("ListFuelEntries() = %v, %v", got, err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	if _, err := quietFactory().CreateBackend(context.Background(), Config{Type: SheetsBackend}); err == nil {
		t.Fatal("expected validation error")
	}
}
