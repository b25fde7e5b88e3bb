package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"abastece/internal/core"
	"abastece/internal/store"
)

var _ store.LedgerStore = (*SQLiteRepository)(nil)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestMigrationsAreIdempotent(t *testing.T) {
	_, path := newTestRepo(t)
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
	v, dirty, err := SchemaVersion(path)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != 1 || dirty {
		t.Fatalf("expected clean version 1, got %d dirty=%v", v, dirty)
	}
}

func TestFuelEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	e := core.RawFuelEntry{
		ID:            "f1",
		Date:          core.NewDate(2024, 3, 1),
		TotalValue:    150.5,
		PricePerLiter: 5.899,
		KmEnd:         12345,
		FuelType:      core.Ethanol,
		Notes:         "posto",
	}
	if err := repo.CreateFuelEntry(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateFuelEntry(ctx, e); !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on duplicate id, got %v", err)
	}
	got, err := repo.GetFuelEntry(ctx, "f1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Date.Equal(e.Date.Time) || got.TotalValue != 150.5 || got.KmEnd != 12345 || got.FuelType != core.Ethanol {
		t.Fatalf("unexpected entry: %+v", got)
	}

	e.KmEnd = 12400
	if err := repo.UpdateFuelEntry(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.ListFuelEntries(ctx)
	if err != nil || len(list) != 1 || list[0].KmEnd != 12400 {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}

	if err := repo.DeleteFuelEntry(ctx, "f1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetFuelEntry(ctx, "f1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteFuelEntry(ctx, "f1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.UpdateFuelEntry(ctx, e); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating deleted entry, got %v", err)
	}
}

func TestListFuelEntriesOrdered(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	for _, e := range []core.RawFuelEntry{
		{ID: "c", Date: core.NewDate(2024, 2, 1), KmEnd: 300, FuelType: core.Gasoline},
		{ID: "a", Date: core.NewDate(2024, 1, 1), KmEnd: 100, FuelType: core.Gasoline},
		{ID: "b", Date: core.NewDate(2024, 1, 1), KmEnd: 200, FuelType: core.Gasoline},
	} {
		if err := repo.CreateFuelEntry(ctx, e); err != nil {
			t.Fatalf("create %s: %v", e.ID, err)
		}
	}
	list, err := repo.ListFuelEntries(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "a" || list[1].ID != "b" || list[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestMaintenanceLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	m := core.MaintenanceEvent{ID: "m1", Date: core.NewDate(2024, 4, 2), ServiceType: core.EngineReview, Mileage: 20000, Cost: 800}
	if err := repo.CreateMaintenance(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	m.Cost = 850
	if err := repo.UpdateMaintenance(ctx, m); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.ListMaintenance(ctx)
	if err != nil || len(list) != 1 || list[0].Cost != 850 || list[0].ServiceType != core.EngineReview {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}
	if err := repo.DeleteMaintenance(ctx, "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = repo.ListMaintenance(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", list)
	}
}

func TestPendingSyncTracksVersions(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	e := core.RawFuelEntry{ID: "f1", Date: core.NewDate(2024, 1, 1), KmEnd: 100, FuelType: core.Gasoline}
	if err := repo.CreateFuelEntry(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	m := core.MaintenanceEvent{ID: "m1", Date: core.NewDate(2024, 1, 2), ServiceType: core.OilChange}
	if err := repo.CreateMaintenance(ctx, m); err != nil {
		t.Fatalf("create maintenance: %v", err)
	}
	if err := repo.CreateMaintenance(ctx, m); !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on duplicate maintenance id, got %v", err)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows, got %+v", pending)
	}

	// Edit after the mirror read version 1: marking version 1 must not
	// hide the newer version.
	e.KmEnd = 150
	if err := repo.UpdateFuelEntry(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.MarkSynced(ctx, pending); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	pending, err = repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Kind != KindFuel || pending[0].Version != 2 {
		t.Fatalf("expected fuel f1 v2 pending, got %+v", pending)
	}

	// Deletion is a change the mirror has to see.
	if err := repo.MarkSynced(ctx, pending); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if err := repo.DeleteMaintenance(ctx, "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	pending, _ = repo.GetPendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].Kind != KindMaintenance {
		t.Fatalf("expected deleted maintenance pending, got %+v", pending)
	}

	// A failed mirror run leaves the row up for retry.
	if err := repo.MarkSyncError(ctx, pending); err != nil {
		t.Fatalf("mark error: %v", err)
	}
	pending, _ = repo.GetPendingSync(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("expected errored row to be retried, got %+v", pending)
	}
	if err := repo.MarkSynced(ctx, pending); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ = repo.GetPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected nothing pending, got %+v", pending)
	}
}

func TestCreateRejectsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	if err := repo.CreateFuelEntry(ctx, core.RawFuelEntry{Date: core.NewDate(2024, 1, 1), FuelType: core.Gasoline}); !errors.Is(err, core.ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	if err := repo.CreateFuelEntry(ctx, core.RawFuelEntry{ID: "x", Date: core.NewDate(2024, 1, 1), FuelType: "DIESEL"}); !errors.Is(err, core.ErrInvalidFuelType) {
		t.Fatalf("expected ErrInvalidFuelType, got %v", err)
	}
}
