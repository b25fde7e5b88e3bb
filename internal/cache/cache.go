package cache

import (
	"context"
	"log/slog"
	"time"
)

type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	GetOrLoad(key string, load func() (T, error)) (T, error)
	Delete(key string)
	Purge()
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	Name() string
	CleanExpired() int
}

// Manager periodically sweeps expired entries from registered caches.
type Manager struct {
	caches []Cleaner
	done   chan struct{}
}

func NewManager() *Manager {
	return &Manager{}
}

// Register must be called before Start.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// Start sweeps every interval until ctx is cancelled.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sweep runs one cleanup pass and returns the number of removed entries.
func (m *Manager) Sweep(ctx context.Context) int {
	total := 0
	for _, c := range m.caches {
		if n := c.CleanExpired(); n > 0 {
			slog.DebugContext(ctx, "Cache entries expired", "cache", c.Name(), "count", n)
			total += n
		}
	}
	return total
}

// Wait blocks until the sweeper started by Start has exited.
func (m *Manager) Wait() {
	if m.done != nil {
		<-m.done
	}
}
