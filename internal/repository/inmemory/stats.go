package inmemory

import (
	"context"
	"sync"
	"time"

	moderationdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/moderation"
)

// StatsCache is the default single-process stats cache.
type StatsCache struct {
	mu        sync.RWMutex
	stats     moderationdomain.Stats
	expiresAt time.Time
	has       bool
	now       func() time.Time
}

func NewStatsCache() *StatsCache {
	return &StatsCache{now: time.Now}
}

func (c *StatsCache) Get(context.Context) (moderationdomain.Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.has || c.now().After(c.expiresAt) {
		return moderationdomain.Stats{}, false
	}
	return c.stats, true
}

func (c *StatsCache) Set(_ context.Context, stats moderationdomain.Stats, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	c.expiresAt = c.now().Add(ttl)
	c.has = true
}
