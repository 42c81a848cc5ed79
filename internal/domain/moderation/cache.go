package moderation

import (
	"context"
	"time"
)

// StatsCache keeps the dashboard summary warm between requests. Swappable per
// deployment: in-memory by default, redis when configured.
type StatsCache interface {
	Get(ctx context.Context) (Stats, bool)
	Set(ctx context.Context, stats Stats, ttl time.Duration)
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context) (Stats, bool) { return Stats{}, false }

func (noopStatsCache) Set(context.Context, Stats, time.Duration) {}
