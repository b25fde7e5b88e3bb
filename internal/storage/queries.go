package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createFuelEntry = `
INSERT INTO fuel_entries (id, entry_date, total_value, price_per_liter, km_end, fuel_type, notes)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateFuelEntryParams struct {
	ID            string
	EntryDate     string
	TotalValue    float64
	PricePerLiter float64
	KmEnd         int64
	FuelType      string
	Notes         string
}

func (q *Queries) CreateFuelEntry(ctx context.Context, arg CreateFuelEntryParams) error {
	_, err := q.db.ExecContext(ctx, createFuelEntry,
		arg.ID, arg.EntryDate, arg.TotalValue, arg.PricePerLiter, arg.KmEnd, arg.FuelType, arg.Notes)
	return err
}

const updateFuelEntry = `
UPDATE fuel_entries
SET entry_date = ?, total_value = ?, price_per_liter = ?, km_end = ?, fuel_type = ?, notes = ?,
    version = version + 1, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND deleted_at IS NULL
`

type UpdateFuelEntryParams struct {
	EntryDate     string
	TotalValue    float64
	PricePerLiter float64
	KmEnd         int64
	FuelType      string
	Notes         string
	ID            string
}

func (q *Queries) UpdateFuelEntry(ctx context.Context, arg UpdateFuelEntryParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateFuelEntry,
		arg.EntryDate, arg.TotalValue, arg.PricePerLiter, arg.KmEnd, arg.FuelType, arg.Notes, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const softDeleteFuelEntry = `
UPDATE fuel_entries
SET deleted_at = CURRENT_TIMESTAMP, version = version + 1, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) SoftDeleteFuelEntry(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteFuelEntry, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listFuelEntries = `
SELECT id, entry_date, total_value, price_per_liter, km_end, fuel_type, notes, version, sync_status
FROM fuel_entries
WHERE deleted_at IS NULL
ORDER BY entry_date, km_end, id
`

func (q *Queries) ListFuelEntries(ctx context.Context) ([]FuelEntry, error) {
	rows, err := q.db.QueryContext(ctx, listFuelEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FuelEntry
	for rows.Next() {
		var i FuelEntry
		if err := rows.Scan(
			&i.ID,
			&i.EntryDate,
			&i.TotalValue,
			&i.PricePerLiter,
			&i.KmEnd,
			&i.FuelType,
			&i.Notes,
			&i.Version,
			&i.SyncStatus,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getFuelEntry = `
SELECT id, entry_date, total_value, price_per_liter, km_end, fuel_type, notes, version, sync_status
FROM fuel_entries
WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetFuelEntry(ctx context.Context, id string) (FuelEntry, error) {
	row := q.db.QueryRowContext(ctx, getFuelEntry, id)
	var i FuelEntry
	err := row.Scan(
		&i.ID,
		&i.EntryDate,
		&i.TotalValue,
		&i.PricePerLiter,
		&i.KmEnd,
		&i.FuelType,
		&i.Notes,
		&i.Version,
		&i.SyncStatus,
	)
	return i, err
}

const createMaintenanceEvent = `
INSERT INTO maintenance_events (id, event_date, service_type, mileage, cost, notes)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateMaintenanceEventParams struct {
	ID          string
	EventDate   string
	ServiceType string
	Mileage     int64
	Cost        float64
	Notes       string
}

func (q *Queries) CreateMaintenanceEvent(ctx context.Context, arg CreateMaintenanceEventParams) error {
	_, err := q.db.ExecContext(ctx, createMaintenanceEvent,
		arg.ID, arg.EventDate, arg.ServiceType, arg.Mileage, arg.Cost, arg.Notes)
	return err
}

const updateMaintenanceEvent = `
UPDATE maintenance_events
SET event_date = ?, service_type = ?, mileage = ?, cost = ?, notes = ?,
    version = version + 1, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND deleted_at IS NULL
`

type UpdateMaintenanceEventParams struct {
	EventDate   string
	ServiceType string
	Mileage     int64
	Cost        float64
	Notes       string
	ID          string
}

func (q *Queries) UpdateMaintenanceEvent(ctx context.Context, arg UpdateMaintenanceEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateMaintenanceEvent,
		arg.EventDate, arg.ServiceType, arg.Mileage, arg.Cost, arg.Notes, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const softDeleteMaintenanceEvent = `
UPDATE maintenance_events
SET deleted_at = CURRENT_TIMESTAMP, version = version + 1, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) SoftDeleteMaintenanceEvent(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteMaintenanceEvent, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listMaintenanceEvents = `
SELECT id, event_date, service_type, mileage, cost, notes, version, sync_status
FROM maintenance_events
WHERE deleted_at IS NULL
ORDER BY event_date DESC, id
`

func (q *Queries) ListMaintenanceEvents(ctx context.Context) ([]MaintenanceEvent, error) {
	rows, err := q.db.QueryContext(ctx, listMaintenanceEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MaintenanceEvent
	for rows.Next() {
		var i MaintenanceEvent
		if err := rows.Scan(
			&i.ID,
			&i.EventDate,
			&i.ServiceType,
			&i.Mileage,
			&i.Cost,
			&i.Notes,
			&i.Version,
			&i.SyncStatus,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Deleted rows are included: the mirror has to drop them too.
const getPendingSync = `
SELECT 'fuel' AS kind, id, version FROM fuel_entries WHERE sync_status IN ('pending', 'error')
UNION ALL
SELECT 'maintenance' AS kind, id, version FROM maintenance_events WHERE sync_status IN ('pending', 'error')
ORDER BY kind, id
LIMIT ?
`

func (q *Queries) GetPendingSync(ctx context.Context, limit int64) ([]PendingSync, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSync, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PendingSync
	for rows.Next() {
		var i PendingSync
		if err := rows.Scan(&i.Kind, &i.ID, &i.Version); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markFuelSyncStatus = `
UPDATE fuel_entries SET sync_status = ? WHERE id = ? AND version = ?
`

const markMaintenanceSyncStatus = `
UPDATE maintenance_events SET sync_status = ? WHERE id = ? AND version = ?
`

type MarkSyncStatusParams struct {
	Status  string
	ID      string
	Version int64
}

func (q *Queries) MarkFuelSyncStatus(ctx context.Context, arg MarkSyncStatusParams) error {
	_, err := q.db.ExecContext(ctx, markFuelSyncStatus, arg.Status, arg.ID, arg.Version)
	return err
}

func (q *Queries) MarkMaintenanceSyncStatus(ctx context.Context, arg MarkSyncStatusParams) error {
	_, err := q.db.ExecContext(ctx, markMaintenanceSyncStatus, arg.Status, arg.ID, arg.Version)
	return err
}
