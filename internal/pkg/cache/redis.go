package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// RedisConfig holds the redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the redis address in host:port format
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisStatsCache is a redis-backed stats cache
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache connects to redis and verifies the connection. A
// non-positive ttl falls back to DefaultStatsTTL.
func NewRedisStatsCache(cfg RedisConfig, ttl time.Duration) (*RedisStatsCache, error) {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}

	logger.Info().Str("addr", cfg.Addr()).Msg("Connected to redis stats cache")
	return &RedisStatsCache{client: client, ttl: ttl}, nil
}

// Get returns the cached stats or ErrCacheMiss when the key is absent
func (c *RedisStatsCache) Get(ctx context.Context, studentID int64) (*models.LogbookStats, error) {
	data, err := c.client.Get(ctx, statsKey(studentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var stats models.LogbookStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return &stats, nil
}

// Set stores the stats under the student's key with the configured TTL
func (c *RedisStatsCache) Set(ctx context.Context, studentID int64, stats *models.LogbookStats) error {
	if stats == nil {
		return nil
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(studentID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops the student's cached stats
func (c *RedisStatsCache) Invalidate(ctx context.Context, studentID int64) error {
	if err := c.client.Del(ctx, statsKey(studentID)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Close closes the redis connection
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}
