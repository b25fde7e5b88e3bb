package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"abastece/internal/amqp"
	"abastece/internal/core"
	"abastece/internal/metrics"
	"abastece/internal/store"

	"github.com/google/uuid"
)

// Publisher announces ledger changes to other processes.
type Publisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// Invalidator drops every derived view built from the raw ledger.
type Invalidator interface {
	Invalidate()
}

// EntryService orchestrates writes to the raw ledger. Every successful write
// invalidates the derived views and publishes a change message.
type EntryService struct {
	ledger      store.LedgerStore
	publisher   Publisher
	invalidator Invalidator
	metrics     *metrics.Metrics
	newID       func() string
}

// NewEntryService wires the service. publisher and invalidator may be nil.
func NewEntryService(ledger store.LedgerStore, publisher Publisher, invalidator Invalidator, m *metrics.Metrics) *EntryService {
	return &EntryService{
		ledger:      ledger,
		publisher:   publisher,
		invalidator: invalidator,
		metrics:     m,
		newID:       func() string { return uuid.NewString() },
	}
}

// CreateFuelEntry assigns an ID when missing and stores the fill-up.
func (s *EntryService) CreateFuelEntry(ctx context.Context, e core.RawFuelEntry) (core.RawFuelEntry, error) {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = s.newID()
	}
	e = sanitizeFuelEntry(e)
	if err := e.Validate(); err != nil {
		return core.RawFuelEntry{}, fmt.Errorf("validate fuel entry: %w", err)
	}
	if err := s.ledger.CreateFuelEntry(ctx, e); err != nil {
		return core.RawFuelEntry{}, fmt.Errorf("save fuel entry: %w", err)
	}
	slog.InfoContext(ctx, "Fuel entry created", "id", e.ID, "date", e.Date.String(), "km_end", e.KmEnd)
	s.changed(ctx, amqp.KindFuel, e.ID, amqp.OpCreated)
	return e, nil
}

func (s *EntryService) UpdateFuelEntry(ctx context.Context, e core.RawFuelEntry) (core.RawFuelEntry, error) {
	if strings.TrimSpace(e.ID) == "" {
		return core.RawFuelEntry{}, core.ErrEmptyID
	}
	e = sanitizeFuelEntry(e)
	if err := e.Validate(); err != nil {
		return core.RawFuelEntry{}, fmt.Errorf("validate fuel entry: %w", err)
	}
	if err := s.ledger.UpdateFuelEntry(ctx, e); err != nil {
		return core.RawFuelEntry{}, fmt.Errorf("update fuel entry: %w", err)
	}
	slog.InfoContext(ctx, "Fuel entry updated", "id", e.ID)
	s.changed(ctx, amqp.KindFuel, e.ID, amqp.OpUpdated)
	return e, nil
}

func (s *EntryService) DeleteFuelEntry(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return core.ErrEmptyID
	}
	if err := s.ledger.DeleteFuelEntry(ctx, id); err != nil {
		return fmt.Errorf("delete fuel entry: %w", err)
	}
	slog.InfoContext(ctx, "Fuel entry deleted", "id", id)
	s.changed(ctx, amqp.KindFuel, id, amqp.OpDeleted)
	return nil
}

// SaveMaintenance creates the event when it has no ID and updates it
// otherwise.
func (s *EntryService) SaveMaintenance(ctx context.Context, m core.MaintenanceEvent) (core.MaintenanceEvent, error) {
	m.Mileage = max(m.Mileage, 0)
	m.Cost = core.SanitizeAmount(m.Cost)
	m.Notes = strings.TrimSpace(m.Notes)

	creating := strings.TrimSpace(m.ID) == ""
	if creating {
		m.ID = s.newID()
	}
	if err := m.Validate(); err != nil {
		return core.MaintenanceEvent{}, fmt.Errorf("validate maintenance: %w", err)
	}

	op := amqp.OpUpdated
	if creating {
		op = amqp.OpCreated
		if err := s.ledger.CreateMaintenance(ctx, m); err != nil {
			return core.MaintenanceEvent{}, fmt.Errorf("save maintenance: %w", err)
		}
	} else if err := s.ledger.UpdateMaintenance(ctx, m); err != nil {
		return core.MaintenanceEvent{}, fmt.Errorf("update maintenance: %w", err)
	}
	slog.InfoContext(ctx, "Maintenance saved", "id", m.ID, "service_type", string(m.ServiceType), "op", op)
	s.changed(ctx, amqp.KindMaintenance, m.ID, op)
	return m, nil
}

func (s *EntryService) DeleteMaintenance(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return core.ErrEmptyID
	}
	if err := s.ledger.DeleteMaintenance(ctx, id); err != nil {
		return fmt.Errorf("delete maintenance: %w", err)
	}
	slog.InfoContext(ctx, "Maintenance deleted", "id", id)
	s.changed(ctx, amqp.KindMaintenance, id, amqp.OpDeleted)
	return nil
}

// changed runs after a committed write. Publishing is best effort: the row
// is already stored and the worker's periodic check picks it up anyway.
func (s *EntryService) changed(ctx context.Context, kind, id, op string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishLedgerChanged(ctx, amqp.NewLedgerChangedMessage(kind, id, op))
	s.metrics.MessagePublished(err)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"kind", kind, "id", id, "op", op, "error", err)
	}
}

func sanitizeFuelEntry(e core.RawFuelEntry) core.RawFuelEntry {
	e.TotalValue = core.SanitizeAmount(e.TotalValue)
	e.PricePerLiter = core.SanitizeAmount(e.PricePerLiter)
	e.KmEnd = max(e.KmEnd, 0)
	e.Notes = strings.TrimSpace(e.Notes)
	return e
}
