package cache

import (
	"context"
	"sync"
	"time"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
)

type memoryItem struct {
	stats     models.LogbookStats
	expiresAt time.Time
}

// MemoryStatsCache is an in-process TTL cache for logbook stats
type MemoryStatsCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
}

// NewMemoryStatsCache creates an in-process stats cache. A non-positive ttl
// falls back to DefaultStatsTTL.
func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &MemoryStatsCache{
		items: make(map[string]memoryItem),
		ttl:   ttl,
	}
}

// Get returns the cached stats or ErrCacheMiss when absent or expired
func (c *MemoryStatsCache) Get(ctx context.Context, studentID int64) (*models.LogbookStats, error) {
	key := statsKey(studentID)

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, ErrCacheMiss
	}

	stats := item.stats
	return &stats, nil
}

// Set stores the stats under the student's key
func (c *MemoryStatsCache) Set(ctx context.Context, studentID int64, stats *models.LogbookStats) error {
	if stats == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[statsKey(studentID)] = memoryItem{
		stats:     *stats,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the student's cached stats
func (c *MemoryStatsCache) Invalidate(ctx context.Context, studentID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, statsKey(studentID))
	return nil
}
