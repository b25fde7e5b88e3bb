package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingObserver struct {
	hits, misses atomic.Int64
}

func (o *countingObserver) CacheHit(string)  { o.hits.Add(1) }
func (o *countingObserver) CacheMiss(string) { o.misses.Add(1) }

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int]("test", 2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a becomes most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string]("test", 10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry")
	}

	c.Set("x", "1")
	c.Set("y", "2")
	now = now.Add(2 * time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 expired, got %d", n)
	}
}

func TestLRUCacheObserver(t *testing.T) {
	o := &countingObserver{}
	c := NewLRUCache[int]("test", 10, time.Minute).WithObserver(o)
	c.Get("missing")
	c.Set("k", 1)
	c.Get("k")
	if o.hits.Load() != 1 || o.misses.Load() != 1 {
		t.Fatalf("unexpected counts hits=%d misses=%d", o.hits.Load(), o.misses.Load())
	}
}

func TestGetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	c := NewLRUCache[int]("test", 10, time.Minute)
	var calls atomic.Int64
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("k", func() (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			if err != nil || v != 42 {
				t.Errorf("unexpected result %v %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() < 1 || calls.Load() > 8 {
		t.Fatalf("unexpected load count %d", calls.Load())
	}
	if v, ok := c.Get("k"); !ok || v != 42 {
		t.Fatalf("expected cached value, got %v %v", v, ok)
	}
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := NewLRUCache[int]("test", 10, time.Minute)
	boom := errors.New("boom")
	if _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Size() != 0 {
		t.Fatal("error result must not be cached")
	}
}

func TestPurgeDiscardsInFlightLoad(t *testing.T) {
	c := NewLRUCache[int]("test", 10, time.Minute)
	v, err := c.GetOrLoad("k", func() (int, error) {
		c.Purge()
		return 1, nil
	})
	if err != nil || v != 1 {
		t.Fatalf("unexpected result %v %v", v, err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("value loaded across a purge must not be stored")
	}
}

func TestGetOrLoadAfterPurgeDoesNotJoinStaleLoad(t *testing.T) {
	c := NewLRUCache[int]("test", 10, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan int)
	go func() {
		v, _ := c.GetOrLoad("k", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- v
	}()
	<-started

	c.Purge()
	v, err := c.GetOrLoad("k", func() (int, error) { return 2, nil })
	if err != nil || v != 2 {
		t.Fatalf("call after purge got %v %v, want 2", v, err)
	}

	close(release)
	if old := <-done; old != 1 {
		t.Fatalf("in-flight load got %v, want 1", old)
	}
	if cached, ok := c.Get("k"); !ok || cached != 2 {
		t.Fatalf("expected fresh value cached, got %v %v", cached, ok)
	}
}

func TestManagerSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int]("test", 10, time.Second)
	c.now = func() time.Time { return now }
	c.Set("a", 1)
	now = now.Add(time.Minute)

	m := NewManager()
	m.Register(c)
	if n := m.Sweep(context.Background()); n != 1 {
		t.Fatalf("expected 1 swept entry, got %d", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx, time.Hour)
	cancel()
	m.Wait()
}
