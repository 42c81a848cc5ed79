package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ellarushing/asu-connect-sub003/internal/config"
	moderationdomain "github.com/ellarushing/asu-connect-sub003/internal/domain/moderation"
	"github.com/redis/go-redis/v9"
)

const statsKey = "asu-connect:admin:stats"

// StatsCache shares the dashboard summary across instances. Cache misses on
// redis errors; the aggregation recomputes.
type StatsCache struct {
	client *redis.Client
}

func New(cfg config.RedisConfig) (*StatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &StatsCache{client: client}, nil
}

func (c *StatsCache) Get(ctx context.Context) (moderationdomain.Stats, bool) {
	payload, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		return moderationdomain.Stats{}, false
	}

	var stats moderationdomain.Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return moderationdomain.Stats{}, false
	}
	return stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats moderationdomain.Stats, ttl time.Duration) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	c.client.Set(ctx, statsKey, payload, ttl)
}

func (c *StatsCache) Close() error {
	return c.client.Close()
}
