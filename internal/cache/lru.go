package cache

import (
	"container/list"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Observer is told about every lookup outcome, e.g. to feed metrics.
type Observer interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

// LRUCache is a size-bounded cache with per-entry TTL. Purge bumps a
// generation counter: loads that started before the purge never store their
// result, and callers arriving after it never share one.
type LRUCache[T any] struct {
	mu       sync.Mutex
	name     string
	maxSize  int
	ttl      time.Duration
	items    map[string]*list.Element
	lru      *list.List
	gen      uint64
	group    singleflight.Group
	observer Observer
	now      func() time.Time
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func NewLRUCache[T any](name string, maxSize int, ttl time.Duration) *LRUCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache[T]{
		name:    name,
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// WithObserver sets the hit/miss observer and returns the cache.
func (c *LRUCache[T]) WithObserver(o Observer) *LRUCache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
	return c
}

func (c *LRUCache[T]) Name() string {
	return c.name
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.getLocked(key)
	if c.observer != nil {
		if ok {
			c.observer.CacheHit(c.name)
		} else {
			c.observer.CacheMiss(c.name)
		}
	}
	return data, ok
}

func (c *LRUCache[T]) getLocked(key string) (T, bool) {
	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}
	item := elem.Value.(*cacheItem[T])
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}
	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *LRUCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, data)
}

func (c *LRUCache[T]) setLocked(key string, data T) {
	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(item)

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// GetOrLoad returns the cached value or runs load once for all concurrent
// callers of the same key and generation. Errors are not cached.
func (c *LRUCache[T]) GetOrLoad(key string, load func() (T, error)) (T, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(key+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		data, err := load()
		if err != nil {
			return data, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.setLocked(key, data)
		}
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

// Purge drops every entry.
func (c *LRUCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

func (c *LRUCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// CleanExpired removes all expired entries and returns count of removed items
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
