package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"abastece/internal/core"
)

// Store keeps the ledger in process memory. Insertion order is preserved.
type Store struct {
	mu          sync.Mutex
	fuel        []core.RawFuelEntry
	maintenance []core.MaintenanceEvent
}

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds the store from seed_fuel.txt and seed_maintenance.txt
// under base. Each non-comment line is a semicolon separated record:
//
//	fuel:        date;total;pricePerLiter;kmEnd;fuelType;notes
//	maintenance: date;serviceType;mileage;cost;notes
//
// Lines with an invalid date or enum are skipped; numbers fall back to 0.
func NewFromFiles(base string) *Store {
	s := New()
	for i, line := range readLines(filepath.Join(base, "seed_fuel.txt")) {
		f := splitFields(line, 6)
		d, err := core.ParseDate(f[0])
		if err != nil {
			continue
		}
		ft, err := core.ParseFuelType(f[4])
		if err != nil {
			continue
		}
		s.fuel = append(s.fuel, core.RawFuelEntry{
			ID:            fmt.Sprintf("seed-fuel-%d", i+1),
			Date:          d,
			TotalValue:    core.ParseAmountOrZero(f[1]),
			PricePerLiter: core.ParseAmountOrZero(f[2]),
			KmEnd:         core.ParseIntOrZero(f[3]),
			FuelType:      ft,
			Notes:         f[5],
		})
	}
	for i, line := range readLines(filepath.Join(base, "seed_maintenance.txt")) {
		f := splitFields(line, 5)
		d, err := core.ParseDate(f[0])
		if err != nil {
			continue
		}
		st, err := core.ParseServiceType(f[1])
		if err != nil {
			continue
		}
		s.maintenance = append(s.maintenance, core.MaintenanceEvent{
			ID:          fmt.Sprintf("seed-maint-%d", i+1),
			Date:        d,
			ServiceType: st,
			Mileage:     core.ParseIntOrZero(f[2]),
			Cost:        core.ParseAmountOrZero(f[3]),
			Notes:       f[4],
		})
	}
	return s
}

func (s *Store) ListFuelEntries(_ context.Context) ([]core.RawFuelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RawFuelEntry(nil), s.fuel...), nil
}

func (s *Store) CreateFuelEntry(_ context.Context, e core.RawFuelEntry) error {
	if e.ID == "" {
		return core.ErrEmptyID
	}
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fuelIndex(e.ID) >= 0 {
		return fmt.Errorf("fuel entry %s: %w", e.ID, core.ErrAlreadyExists)
	}
	s.fuel = append(s.fuel, e)
	return nil
}

func (s *Store) UpdateFuelEntry(_ context.Context, e core.RawFuelEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.fuelIndex(e.ID)
	if i < 0 {
		return core.ErrNotFound
	}
	s.fuel[i] = e
	return nil
}

func (s *Store) DeleteFuelEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.fuelIndex(id)
	if i < 0 {
		return core.ErrNotFound
	}
	s.fuel = append(s.fuel[:i], s.fuel[i+1:]...)
	return nil
}

func (s *Store) ListMaintenance(_ context.Context) ([]core.MaintenanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MaintenanceEvent(nil), s.maintenance...), nil
}

func (s *Store) CreateMaintenance(_ context.Context, m core.MaintenanceEvent) error {
	if m.ID == "" {
		return core.ErrEmptyID
	}
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maintenanceIndex(m.ID) >= 0 {
		return fmt.Errorf("maintenance event %s: %w", m.ID, core.ErrAlreadyExists)
	}
	s.maintenance = append(s.maintenance, m)
	return nil
}

func (s *Store) UpdateMaintenance(_ context.Context, m core.MaintenanceEvent) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.maintenanceIndex(m.ID)
	if i < 0 {
		return core.ErrNotFound
	}
	s.maintenance[i] = m
	return nil
}

func (s *Store) DeleteMaintenance(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.maintenanceIndex(id)
	if i < 0 {
		return core.ErrNotFound
	}
	s.maintenance = append(s.maintenance[:i], s.maintenance[i+1:]...)
	return nil
}

// callers hold s.mu
func (s *Store) fuelIndex(id string) int {
	for i := range s.fuel {
		if s.fuel[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) maintenanceIndex(id string) int {
	for i := range s.maintenance {
		if s.maintenance[i].ID == id {
			return i
		}
	}
	return -1
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// splitFields always returns n trimmed fields, padding missing ones.
func splitFields(line string, n int) []string {
	parts := strings.SplitN(line, ";", n)
	out := make([]string, n)
	for i := range out {
		if i < len(parts) {
			out[i] = strings.TrimSpace(parts[i])
		}
	}
	return out
}
