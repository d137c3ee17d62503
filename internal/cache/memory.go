package cache

import (
	"context"
	"sync"
	"time"

	"github.com/soltixdb/gapscan/internal/analytics/gaps"
)

type memoryEntry struct {
	report  *gaps.Report
	expires time.Time
}

// MemoryCache is an in-process ReportCache with per-entry expiry.
// Expired entries are dropped lazily on Get.
type MemoryCache struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	mu      sync.Mutex
}

// NewMemoryCache creates a memory cache. ttl <= 0 keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached report for key
func (c *MemoryCache) Get(_ context.Context, key string) (*gaps.Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.report, true, nil
}

// Set stores report under key
func (c *MemoryCache) Set(_ context.Context, key string, report *gaps.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{report: report}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[key] = e
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops all entries
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}
