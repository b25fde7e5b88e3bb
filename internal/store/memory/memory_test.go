package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"abastece/internal/core"
	"abastece/internal/store"
)

var _ store.LedgerStore = (*Store)(nil)

func TestMemoryStoreFuelCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	e := core.RawFuelEntry{ID: "a", Date: core.NewDate(2024, 1, 1), TotalValue: 100, PricePerLiter: 5, KmEnd: 1000, FuelType: core.Ethanol}
	if err := s.CreateFuelEntry(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateFuelEntry(ctx, e); !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := s.CreateFuelEntry(ctx, core.RawFuelEntry{Date: e.Date, FuelType: core.Ethanol}); !errors.Is(err, core.ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}

	e.KmEnd = 1100
	if err := s.UpdateFuelEntry(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := s.ListFuelEntries(ctx)
	if len(got) != 1 || got[0].KmEnd != 1100 {
		t.Fatalf("unexpected list: %+v", got)
	}

	// Listing returns a copy.
	got[0].KmEnd = 1
	again, _ := s.ListFuelEntries(ctx)
	if again[0].KmEnd != 1100 {
		t.Fatalf("store was mutated through list result")
	}

	if err := s.UpdateFuelEntry(ctx, core.RawFuelEntry{ID: "missing", Date: e.Date, FuelType: core.Ethanol}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteFuelEntry(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteFuelEntry(ctx, "a"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreMaintenanceCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := core.MaintenanceEvent{ID: "m1", Date: core.NewDate(2024, 5, 1), ServiceType: core.OilChange, Mileage: 1000, Cost: 250}
	if err := s.CreateMaintenance(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateMaintenance(ctx, m); !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	m.Cost = 300
	if err := s.UpdateMaintenance(ctx, m); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, _ := s.ListMaintenance(ctx)
	if len(list) != 1 || list[0].Cost != 300 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := s.DeleteMaintenance(ctx, "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteMaintenance(ctx, "m1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> empty store
	s := NewFromFiles(dir)
	fuel, _ := s.ListFuelEntries(context.Background())
	if len(fuel) != 0 {
		t.Fatalf("expected empty store when files missing")
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_fuel.txt", "# date;total;price;km;type;notes\n2024-01-05;100,00;5,00;1000;GASOLINA;first\n2024-01-20;abc;5;1400;etanol\nbad-date;1;1;1;GASOLINA\n\n")
	mustWrite("seed_maintenance.txt", "2024-02-01;oil_change;1200;350.50;filtro\n2024-02-02;car wash;1;1\n")

	s = NewFromFiles(dir)
	fuel, _ = s.ListFuelEntries(context.Background())
	if len(fuel) != 2 {
		t.Fatalf("expected 2 seeded fuel entries, got %d", len(fuel))
	}
	if fuel[0].TotalValue != 100 || fuel[0].Notes != "first" || fuel[0].FuelType != core.Gasoline {
		t.Fatalf("unexpected first entry: %+v", fuel[0])
	}
	if fuel[1].TotalValue != 0 || fuel[1].FuelType != core.Ethanol {
		t.Fatalf("malformed total should fall back to 0: %+v", fuel[1])
	}
	maint, _ := s.ListMaintenance(context.Background())
	if len(maint) != 1 || maint[0].Cost != 350.5 || maint[0].Mileage != 1200 {
		t.Fatalf("unexpected maintenance: %+v", maint)
	}
}
