package store

import (
	"context"

	"abastece/internal/core"
)

// Ports for the raw ledger. Derived views are never stored; they are
// recomputed from what these return.
type (
	FuelEntryReader interface {
		ListFuelEntries(ctx context.Context) ([]core.RawFuelEntry, error)
	}

	// FuelEntryWriter mutates fill-ups. Update and Delete return
	// core.ErrNotFound for an unknown ID.
	FuelEntryWriter interface {
		CreateFuelEntry(ctx context.Context, e core.RawFuelEntry) error
		UpdateFuelEntry(ctx context.Context, e core.RawFuelEntry) error
		DeleteFuelEntry(ctx context.Context, id string) error
	}

	MaintenanceReader interface {
		ListMaintenance(ctx context.Context) ([]core.MaintenanceEvent, error)
	}

	MaintenanceWriter interface {
		CreateMaintenance(ctx context.Context, m core.MaintenanceEvent) error
		UpdateMaintenance(ctx context.Context, m core.MaintenanceEvent) error
		DeleteMaintenance(ctx context.Context, id string) error
	}

	FuelEntryStore interface {
		FuelEntryReader
		FuelEntryWriter
	}

	MaintenanceStore interface {
		MaintenanceReader
		MaintenanceWriter
	}

	// LedgerStore is everything a data backend has to provide.
	LedgerStore interface {
		FuelEntryStore
		MaintenanceStore
	}
)
