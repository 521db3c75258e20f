package cache

import (
	"context"
	"sync"
	"time"

	"github.com/marketplace/storefront/internal/domain/currency"
)

// Snapshot is one cached currency listing together with its fetch time
type Snapshot struct {
	Currencies []currency.Currency `json:"currencies"`
	FetchedAt  time.Time           `json:"fetchedAt"`
}

// RateCache stores the most recent currency listing so repeated lookups
// do not hit the upstream API. Entries expire after the configured TTL.
type RateCache interface {
	Get(ctx context.Context) (*Snapshot, bool, error)
	Set(ctx context.Context, snapshot *Snapshot) error
	Invalidate(ctx context.Context) error
}

// MemoryRateCache is a process-local rate cache
type MemoryRateCache struct {
	mu       sync.RWMutex
	snapshot *Snapshot
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryRateCache creates an in-memory rate cache with the given TTL
func NewMemoryRateCache(ttl time.Duration) *MemoryRateCache {
	return &MemoryRateCache{ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot if present and fresh
func (c *MemoryRateCache) Get(_ context.Context) (*Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false, nil
	}
	if c.ttl > 0 && c.now().Sub(c.snapshot.FetchedAt) > c.ttl {
		return nil, false, nil
	}
	return c.snapshot, true, nil
}

// Set stores a snapshot, replacing any previous one
func (c *MemoryRateCache) Set(_ context.Context, snapshot *Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
	return nil
}

// Invalidate drops the cached snapshot
func (c *MemoryRateCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	return nil
}
