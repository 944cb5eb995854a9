package cache

import (
	"context"
	"sync"
	"time"

	appreport "github.com/retailops/backend/internal/application/report"
	"github.com/retailops/backend/internal/domain/report"
)

// MemoryReportCache is an in-process report cache used when Redis is not
// configured. Expired entries are dropped lazily on read.
type MemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	report    *report.SalesReport
	expiresAt time.Time
}

// NewMemoryReportCache creates an in-memory report cache
func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ appreport.ReportCache = (*MemoryReportCache)(nil)

// Get returns the cached report for the key, or (nil, nil) on a miss
func (c *MemoryReportCache) Get(_ context.Context, key string) (*report.SalesReport, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return entry.report, nil
}

// Set stores the report under the key with the given TTL
func (c *MemoryReportCache) Set(_ context.Context, key string, rep *report.SalesReport, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		report:    rep,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}
