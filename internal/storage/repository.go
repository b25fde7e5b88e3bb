package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"abastece/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

// isPrimaryKeyViolation reports an insert that reused an existing id,
// soft-deleted rows included.
func isPrimaryKeyViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListFuelEntries implements store.FuelEntryReader
func (r *SQLiteRepository) ListFuelEntries(ctx context.Context) ([]core.RawFuelEntry, error) {
	rows, err := r.queries.ListFuelEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fuel entries: %w", err)
	}
	out := make([]core.RawFuelEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toCore()
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable fuel entry", "id", row.ID, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// GetFuelEntry returns core.ErrNotFound for unknown or deleted IDs.
func (r *SQLiteRepository) GetFuelEntry(ctx context.Context, id string) (core.RawFuelEntry, error) {
	row, err := r.queries.GetFuelEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RawFuelEntry{}, core.ErrNotFound
	}
	if err != nil {
		return core.RawFuelEntry{}, fmt.Errorf("get fuel entry: %w", err)
	}
	return row.toCore()
}

// CreateFuelEntry implements store.FuelEntryWriter
func (r *SQLiteRepository) CreateFuelEntry(ctx context.Context, e core.RawFuelEntry) error {
	if e.ID == "" {
		return core.ErrEmptyID
	}
	if err := e.Validate(); err != nil {
		return err
	}
	err := r.queries.CreateFuelEntry(ctx, CreateFuelEntryParams{
		ID:            e.ID,
		EntryDate:     e.Date.String(),
		TotalValue:    e.TotalValue,
		PricePerLiter: e.PricePerLiter,
		KmEnd:         e.KmEnd,
		FuelType:      string(e.FuelType),
		Notes:         e.Notes,
	})
	if isPrimaryKeyViolation(err) {
		return fmt.Errorf("create fuel entry %s: %w", e.ID, core.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("create fuel entry: %w", err)
	}

	slog.InfoContext(ctx, "Fuel entry saved to SQLite",
		"id", e.ID,
		"date", e.Date.String(),
		"total_value", e.TotalValue,
		"km_end", e.KmEnd)
	return nil
}

func (r *SQLiteRepository) UpdateFuelEntry(ctx context.Context, e core.RawFuelEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	n, err := r.queries.UpdateFuelEntry(ctx, UpdateFuelEntryParams{
		EntryDate:     e.Date.String(),
		TotalValue:    e.TotalValue,
		PricePerLiter: e.PricePerLiter,
		KmEnd:         e.KmEnd,
		FuelType:      string(e.FuelType),
		Notes:         e.Notes,
		ID:            e.ID,
	})
	if err != nil {
		return fmt.Errorf("update fuel entry: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Fuel entry updated", "id", e.ID)
	return nil
}

func (r *SQLiteRepository) DeleteFuelEntry(ctx context.Context, id string) error {
	n, err := r.queries.SoftDeleteFuelEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("delete fuel entry: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Fuel entry soft deleted", "id", id)
	return nil
}

// ListMaintenance implements store.MaintenanceReader
func (r *SQLiteRepository) ListMaintenance(ctx context.Context) ([]core.MaintenanceEvent, error) {
	rows, err := r.queries.ListMaintenanceEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list maintenance events: %w", err)
	}
	out := make([]core.MaintenanceEvent, 0, len(rows))
	for _, row := range rows {
		m, err := row.toCore()
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable maintenance event", "id", row.ID, "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateMaintenance(ctx context.Context, m core.MaintenanceEvent) error {
	if m.ID == "" {
		return core.ErrEmptyID
	}
	if err := m.Validate(); err != nil {
		return err
	}
	err := r.queries.CreateMaintenanceEvent(ctx, CreateMaintenanceEventParams{
		ID:          m.ID,
		EventDate:   m.Date.String(),
		ServiceType: string(m.ServiceType),
		Mileage:     m.Mileage,
		Cost:        m.Cost,
		Notes:       m.Notes,
	})
	if isPrimaryKeyViolation(err) {
		return fmt.Errorf("create maintenance event %s: %w", m.ID, core.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("create maintenance event: %w", err)
	}
	slog.InfoContext(ctx, "Maintenance event saved to SQLite",
		"id", m.ID,
		"service_type", m.ServiceType,
		"mileage", m.Mileage)
	return nil
}

func (r *SQLiteRepository) UpdateMaintenance(ctx context.Context, m core.MaintenanceEvent) error {
	if err := m.Validate(); err != nil {
		return err
	}
	n, err := r.queries.UpdateMaintenanceEvent(ctx, UpdateMaintenanceEventParams{
		EventDate:   m.Date.String(),
		ServiceType: string(m.ServiceType),
		Mileage:     m.Mileage,
		Cost:        m.Cost,
		Notes:       m.Notes,
		ID:          m.ID,
	})
	if err != nil {
		return fmt.Errorf("update maintenance event: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteMaintenance(ctx context.Context, id string) error {
	n, err := r.queries.SoftDeleteMaintenanceEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete maintenance event: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Maintenance event soft deleted", "id", id)
	return nil
}

// GetPendingSync returns row versions changed since the last mirror run.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	items, err := r.queries.GetPendingSync(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	return items, nil
}

// MarkSynced flags the given versions as mirrored. A row edited after the
// mirror read it has a newer version and stays pending.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, items []PendingSync) error {
	return r.markSyncStatus(ctx, items, SyncSynced)
}

// MarkSyncError flags the given versions as failed so they are not retried
// on every tick.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, items []PendingSync) error {
	if err := r.markSyncStatus(ctx, items, SyncError); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Ledger rows marked with sync error", "count", len(items))
	return nil
}

func (r *SQLiteRepository) markSyncStatus(ctx context.Context, items []PendingSync, status string) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	for _, it := range items {
		arg := MarkSyncStatusParams{Status: status, ID: it.ID, Version: it.Version}
		switch it.Kind {
		case KindFuel:
			err = q.MarkFuelSyncStatus(ctx, arg)
		case KindMaintenance:
			err = q.MarkMaintenanceSyncStatus(ctx, arg)
		default:
			err = fmt.Errorf("unknown ledger kind %q", it.Kind)
		}
		if err != nil {
			return fmt.Errorf("mark %s %s %s: %w", it.Kind, it.ID, status, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sync status: %w", err)
	}
	return nil
}

func (f FuelEntry) toCore() (core.RawFuelEntry, error) {
	d, err := core.ParseDate(f.EntryDate)
	if err != nil {
		return core.RawFuelEntry{}, err
	}
	ft, err := core.ParseFuelType(f.FuelType)
	if err != nil {
		return core.RawFuelEntry{}, err
	}
	return core.RawFuelEntry{
		ID:            f.ID,
		Date:          d,
		TotalValue:    core.SanitizeAmount(f.TotalValue),
		PricePerLiter: core.SanitizeAmount(f.PricePerLiter),
		KmEnd:         f.KmEnd,
		FuelType:      ft,
		Notes:         f.Notes,
	}, nil
}

func (m MaintenanceEvent) toCore() (core.MaintenanceEvent, error) {
	d, err := core.ParseDate(m.EventDate)
	if err != nil {
		return core.MaintenanceEvent{}, err
	}
	st, err := core.ParseServiceType(m.ServiceType)
	if err != nil {
		return core.MaintenanceEvent{}, err
	}
	return core.MaintenanceEvent{
		ID:          m.ID,
		Date:        d,
		ServiceType: st,
		Mileage:     m.Mileage,
		Cost:        core.SanitizeAmount(m.Cost),
		Notes:       m.Notes,
	}, nil
}
