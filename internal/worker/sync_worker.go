package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"abastece/internal/amqp"
	"abastece/internal/analytics"
	"abastece/internal/core"
	"abastece/internal/metrics"
	"abastece/internal/storage"
	"abastece/internal/store"

	"golang.org/x/sync/errgroup"
)

// LedgerSource is the authoritative raw ledger plus its sync bookkeeping.
type LedgerSource interface {
	store.FuelEntryReader
	store.MaintenanceReader
	GetPendingSync(ctx context.Context, limit int) ([]storage.PendingSync, error)
	MarkSynced(ctx context.Context, items []storage.PendingSync) error
	MarkSyncError(ctx context.Context, items []storage.PendingSync) error
}

// LedgerMirror receives full copies of the derived ledger.
type LedgerMirror interface {
	MirrorFuelLedger(ctx context.Context, entries []core.ProcessedFuelEntry) error
	MirrorMaintenance(ctx context.Context, events []core.MaintenanceEvent) error
	MirrorMonthlySummary(ctx context.Context, year int, rows [12]core.MonthlyRow, totals core.YearSummary) error
}

// SyncWorker mirrors the derived ledger from SQLite to Google Sheets. The
// mirror is always rebuilt in full; pending rows only decide whether a run
// is needed and which row versions it covers.
type SyncWorker struct {
	source    LedgerSource
	mirror    LedgerMirror
	locale    analytics.Locale
	batchSize int
	metrics   *metrics.Metrics

	// one mirror run at a time
	mu sync.Mutex
}

func NewSyncWorker(source LedgerSource, mirror LedgerMirror, locale analytics.Locale, batchSize int, m *metrics.Metrics) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &SyncWorker{
		source:    source,
		mirror:    mirror,
		locale:    locale,
		batchSize: batchSize,
		metrics:   m,
	}
}

// HandleLedgerChanged processes a single change message from AMQP.
func (w *SyncWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"kind", msg.Kind,
		"id", msg.ID,
		"op", msg.Op)

	if err := w.SyncAll(ctx); err != nil {
		return fmt.Errorf("mirror after %s %s: %w", msg.Kind, msg.Op, err)
	}
	return nil
}

// ProcessPending mirrors the ledger when some rows have not been synced.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	return w.syncPending(ctx, w.batchSize, false)
}

// StartupSyncCheck recovers from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.syncPending(ctx, w.batchSize*5, true)
}

// SyncAll rebuilds every mirrored sheet regardless of pending rows.
func (w *SyncWorker) SyncAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending, err := w.source.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending sync: %w", err)
	}
	return w.mirrorLocked(ctx, pending)
}

func (w *SyncWorker) syncPending(ctx context.Context, limit int, startup bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending, err := w.source.GetPendingSync(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending sync: %w", err)
	}
	if len(pending) == 0 {
		if startup {
			slog.InfoContext(ctx, "No pending ledger rows found on startup")
		}
		return nil
	}
	slog.InfoContext(ctx, "Found pending ledger rows", "count", len(pending), "startup", startup)
	return w.mirrorLocked(ctx, pending)
}

// mirrorLocked reads the ledger after pending was fetched, so a row edited
// meanwhile carries a newer version and stays pending for the next run.
func (w *SyncWorker) mirrorLocked(ctx context.Context, pending []storage.PendingSync) (err error) {
	start := time.Now()
	defer func() { w.metrics.SyncRun(err) }()

	var (
		raw    []core.RawFuelEntry
		events []core.MaintenanceEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = w.source.ListFuelEntries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = w.source.ListMaintenance(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	processed := analytics.ProcessEntries(raw)
	w.metrics.LedgerRecomputed(len(processed))

	if err := w.push(ctx, processed, events); err != nil {
		if len(pending) > 0 {
			if markErr := w.source.MarkSyncError(ctx, pending); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "count", len(pending), "error", markErr)
			}
		}
		return err
	}

	if len(pending) > 0 {
		if err := w.source.MarkSynced(ctx, pending); err != nil {
			return fmt.Errorf("mark synced: %w", err)
		}
	}

	slog.InfoContext(ctx, "Ledger mirrored",
		"entries", len(processed),
		"maintenance", len(events),
		"rows_synced", len(pending),
		"duration", time.Since(start))
	return nil
}

func (w *SyncWorker) push(ctx context.Context, processed []core.ProcessedFuelEntry, events []core.MaintenanceEvent) error {
	if err := w.mirror.MirrorFuelLedger(ctx, processed); err != nil {
		return fmt.Errorf("mirror fuel ledger: %w", err)
	}
	if err := w.mirror.MirrorMaintenance(ctx, events); err != nil {
		return fmt.Errorf("mirror maintenance: %w", err)
	}
	for _, year := range analytics.AvailableYears(processed) {
		rows := analytics.MonthlyAggregates(processed, year, w.locale)
		totals := analytics.YearTotals(processed, year)
		if err := w.mirror.MirrorMonthlySummary(ctx, year, rows, totals); err != nil {
			return fmt.Errorf("mirror %d summary: %w", year, err)
		}
	}
	return nil
}

// Run polls for pending rows every interval until ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Failed to process pending ledger rows", "error", err)
			}
		}
	}
}
