package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"abastece/internal/analytics"
	"abastece/internal/cache"
	"abastece/internal/core"
	"abastece/internal/maintenance"
	"abastece/internal/metrics"
	"abastece/internal/store"

	"golang.org/x/sync/errgroup"
)

const ledgerKey = "ledger"

// ledgerView is everything derived from one read of the raw ledger.
type ledgerView struct {
	raw         []core.RawFuelEntry
	processed   []core.ProcessedFuelEntry
	maintenance []core.MaintenanceEvent
}

// Overview bundles what the dashboard shows for one year.
type Overview struct {
	Years          []int               `json:"years"`
	Year           int                 `json:"year"`
	Monthly        [12]core.MonthlyRow `json:"monthly"`
	Summary        core.YearSummary    `json:"summary"`
	CurrentMileage int64               `json:"currentMileage"`
	Maintenance    []maintenance.Row   `json:"maintenance"`
}

// DashboardService serves the derived views. The processed ledger is built
// once per raw change and cached until Invalidate.
type DashboardService struct {
	fuel    store.FuelEntryReader
	maint   store.MaintenanceReader
	locale  analytics.Locale
	metrics *metrics.Metrics
	views   *cache.LRUCache[ledgerView]
	now     func() time.Time
}

func NewDashboardService(fuel store.FuelEntryReader, maint store.MaintenanceReader, locale analytics.Locale, ttl time.Duration, m *metrics.Metrics) *DashboardService {
	return &DashboardService{
		fuel:    fuel,
		maint:   maint,
		locale:  locale,
		metrics: m,
		views:   cache.NewLRUCache[ledgerView]("ledger", 1, ttl).WithObserver(m),
		now:     time.Now,
	}
}

// Cache exposes the view cache for periodic expiry sweeps.
func (s *DashboardService) Cache() cache.Cleaner {
	return s.views
}

func (s *DashboardService) Locale() analytics.Locale {
	return s.locale
}

// Invalidate discards every derived view.
func (s *DashboardService) Invalidate() {
	s.views.Purge()
}

func (s *DashboardService) view(ctx context.Context) (ledgerView, error) {
	return s.views.GetOrLoad(ledgerKey, func() (ledgerView, error) {
		return s.load(ctx)
	})
}

// load reads fuel entries and maintenance concurrently and recomputes the
// processed ledger in full.
func (s *DashboardService) load(ctx context.Context) (ledgerView, error) {
	var v ledgerView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.fuel.ListFuelEntries(gctx)
		if err != nil {
			return fmt.Errorf("list fuel entries: %w", err)
		}
		v.raw = raw
		return nil
	})
	g.Go(func() error {
		events, err := s.maint.ListMaintenance(gctx)
		if err != nil {
			return fmt.Errorf("list maintenance: %w", err)
		}
		v.maintenance = events
		return nil
	})
	if err := g.Wait(); err != nil {
		return ledgerView{}, err
	}

	start := time.Now()
	v.processed = analytics.ProcessEntries(v.raw)
	s.metrics.LedgerRecomputed(len(v.processed))
	slog.DebugContext(ctx, "Ledger recomputed",
		"entries", len(v.processed),
		"maintenance", len(v.maintenance),
		"duration", time.Since(start))
	return v, nil
}

// ProcessedEntries returns the full chronological ledger.
func (s *DashboardService) ProcessedEntries(ctx context.Context) ([]core.ProcessedFuelEntry, error) {
	v, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.processed), nil
}

// Years returns the available years and the one to show: requested when
// non-zero, else the most recent.
func (s *DashboardService) Years(ctx context.Context, requested int) ([]int, int, error) {
	v, err := s.view(ctx)
	if err != nil {
		return nil, 0, err
	}
	return analytics.AvailableYears(v.processed), analytics.SelectYear(v.processed, requested, s.now()), nil
}

func (s *DashboardService) Monthly(ctx context.Context, year int) ([12]core.MonthlyRow, error) {
	v, err := s.view(ctx)
	if err != nil {
		return [12]core.MonthlyRow{}, err
	}
	return analytics.MonthlyAggregates(v.processed, year, s.locale), nil
}

func (s *DashboardService) Summary(ctx context.Context, year int) (core.YearSummary, error) {
	v, err := s.view(ctx)
	if err != nil {
		return core.YearSummary{}, err
	}
	return analytics.YearTotals(v.processed, year), nil
}

func (s *DashboardService) Overview(ctx context.Context, requested int) (Overview, error) {
	v, err := s.view(ctx)
	if err != nil {
		return Overview{}, err
	}
	year := analytics.SelectYear(v.processed, requested, s.now())
	return Overview{
		Years:          analytics.AvailableYears(v.processed),
		Year:           year,
		Monthly:        analytics.MonthlyAggregates(v.processed, year, s.locale),
		Summary:        analytics.YearTotals(v.processed, year),
		CurrentMileage: analytics.CurrentMileage(v.raw),
		Maintenance:    maintenance.BuildLog(v.maintenance),
	}, nil
}

// MaintenanceLog returns the formatted log, most recent first.
func (s *DashboardService) MaintenanceLog(ctx context.Context) ([]maintenance.Row, error) {
	v, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return maintenance.BuildLog(v.maintenance), nil
}

// RawMaintenance returns the events sorted most recent first.
func (s *DashboardService) RawMaintenance(ctx context.Context) ([]core.MaintenanceEvent, error) {
	v, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return maintenance.SortLog(v.maintenance), nil
}

// MaintenanceDefaults pre-fills a new-event form with the current mileage.
func (s *DashboardService) MaintenanceDefaults(ctx context.Context) (maintenance.FormData, error) {
	v, err := s.view(ctx)
	if err != nil {
		return maintenance.FormData{}, err
	}
	return maintenance.FormDefaults(analytics.CurrentMileage(v.raw), s.now()), nil
}

func (s *DashboardService) CurrentMileage(ctx context.Context) (int64, error) {
	v, err := s.view(ctx)
	if err != nil {
		return 0, err
	}
	return analytics.CurrentMileage(v.raw), nil
}
