package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abastece/internal/amqp"
	"abastece/internal/analytics"
	"abastece/internal/core"
	"abastece/internal/metrics"
	"abastece/internal/storage"
)

type fakeMirror struct {
	mu        sync.Mutex
	fuelRuns  int
	entries   []core.ProcessedFuelEntry
	events    []core.MaintenanceEvent
	summaries map[int][12]core.MonthlyRow
	totals    map[int]core.YearSummary
	err       error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		summaries: make(map[int][12]core.MonthlyRow),
		totals:    make(map[int]core.YearSummary),
	}
}

func (f *fakeMirror) MirrorFuelLedger(_ context.Context, entries []core.ProcessedFuelEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fuelRuns++
	if f.err != nil {
		return f.err
	}
	f.entries = entries
	return nil
}

func (f *fakeMirror) MirrorMaintenance(_ context.Context, events []core.MaintenanceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = events
	return nil
}

func (f *fakeMirror) MirrorMonthlySummary(_ context.Context, year int, rows [12]core.MonthlyRow, totals core.YearSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries[year] = rows
	f.totals[year] = totals
	return nil
}

func newTestWorker(t *testing.T) (*SyncWorker, *storage.SQLiteRepository, *fakeMirror) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	mirror := newFakeMirror()
	return NewSyncWorker(repo, mirror, analytics.LocalePtBR, 10, metrics.New()), repo, mirror
}

func seed(t *testing.T, repo *storage.SQLiteRepository) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []core.RawFuelEntry{
		{ID: "f1", Date: core.NewDate(2023, 11, 3), TotalValue: 200, PricePerLiter: 5, KmEnd: 5000, FuelType: core.Gasoline},
		{ID: "f2", Date: core.NewDate(2024, 1, 4), TotalValue: 200, PricePerLiter: 5, KmEnd: 5480, FuelType: core.Gasoline},
	} {
		require.NoError(t, repo.CreateFuelEntry(ctx, e))
	}
	require.NoError(t, repo.CreateMaintenance(ctx, core.MaintenanceEvent{
		ID: "m1", Date: core.NewDate(2024, 1, 10), ServiceType: core.GeneralReview, Mileage: 5500, Cost: 900,
	}))
}

func TestSyncWorker_ProcessPendingMirrorsFullLedger(t *testing.T) {
	ctx := context.Background()
	w, repo, mirror := newTestWorker(t)
	seed(t, repo)

	require.NoError(t, w.ProcessPending(ctx))

	require.Len(t, mirror.entries, 2)
	assert.Equal(t, int64(480), mirror.entries[1].Distance)
	assert.InDelta(t, 12.0, mirror.entries[1].AvgKmpl, 1e-9)
	require.Len(t, mirror.events, 1)

	assert.Contains(t, mirror.summaries, 2023)
	assert.Contains(t, mirror.summaries, 2024)
	assert.Equal(t, "Jan.", mirror.summaries[2024][0].Name)
	assert.InDelta(t, 200.0, mirror.totals[2024].TotalSpent, 1e-9)

	pending, err := repo.GetPendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Nothing pending: no new mirror run.
	require.NoError(t, w.ProcessPending(ctx))
	assert.Equal(t, 1, mirror.fuelRuns)
}

func TestSyncWorker_MirrorFailureKeepsRowsPending(t *testing.T) {
	ctx := context.Background()
	w, repo, mirror := newTestWorker(t)
	seed(t, repo)
	mirror.err = errors.New("quota exceeded")

	err := w.ProcessPending(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	pending, err := repo.GetPendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	mirror.err = nil
	require.NoError(t, w.StartupSyncCheck(ctx))
	pending, err = repo.GetPendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSyncWorker_HandleLedgerChangedAlwaysMirrors(t *testing.T) {
	ctx := context.Background()
	w, repo, mirror := newTestWorker(t)
	seed(t, repo)
	require.NoError(t, w.ProcessPending(ctx))

	require.NoError(t, repo.DeleteFuelEntry(ctx, "f1"))
	msg := amqp.NewLedgerChangedMessage(amqp.KindFuel, "f1", amqp.OpDeleted)
	require.NoError(t, w.HandleLedgerChanged(ctx, msg))

	assert.Equal(t, 2, mirror.fuelRuns)
	require.Len(t, mirror.entries, 1)
	assert.Equal(t, "f2", mirror.entries[0].ID)
	assert.Zero(t, mirror.entries[0].Distance)

	// The message carries no data, so even a clean store is mirrored.
	require.NoError(t, w.HandleLedgerChanged(ctx, msg))
	assert.Equal(t, 3, mirror.fuelRuns)
}

func TestSyncWorker_RunStopsOnCancel(t *testing.T) {
	w, repo, mirror := newTestWorker(t)
	seed(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, 10*time.Millisecond) }()

	require.Eventually(t, func() bool {
		mirror.mu.Lock()
		defer mirror.mu.Unlock()
		return mirror.fuelRuns > 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
