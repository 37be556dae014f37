package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apppayments "github.com/condoledger/backend/internal/application/payments"
	"github.com/condoledger/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const solvencyKeyPrefix = "solvency:user:"

// RedisSolvencyCache caches computed solvency summaries in Redis so the
// dashboard read path does not recompute the covered-period set on every
// request. A cache miss is reported as (nil, nil).
type RedisSolvencyCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ apppayments.SolvencyCache = (*RedisSolvencyCache)(nil)

// NewRedisSolvencyCache connects to Redis and returns a solvency cache
func NewRedisSolvencyCache(cfg config.RedisConfig) (*RedisSolvencyCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSolvencyCache{client: client, ttl: cfg.SolvencyTTL}, nil
}

// NewRedisSolvencyCacheWithClient wraps an existing client. Useful for
// tests and for sharing one client across components.
func NewRedisSolvencyCacheWithClient(client *redis.Client, ttl time.Duration) *RedisSolvencyCache {
	return &RedisSolvencyCache{client: client, ttl: ttl}
}

// Get returns the cached summary for the user, or nil on a miss
func (c *RedisSolvencyCache) Get(ctx context.Context, userID uuid.UUID) (*apppayments.SolvencySummary, error) {
	data, err := c.client.Get(ctx, solvencyKeyPrefix+userID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read solvency cache: %w", err)
	}
	var summary apppayments.SolvencySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode cached solvency summary: %w", err)
	}
	return &summary, nil
}

// Set stores the summary under the configured TTL
func (c *RedisSolvencyCache) Set(ctx context.Context, userID uuid.UUID, summary *apppayments.SolvencySummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode solvency summary: %w", err)
	}
	if err := c.client.Set(ctx, solvencyKeyPrefix+userID.String(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write solvency cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary, forcing recomputation on the next
// read. Called whenever a payment of the user changes state.
func (c *RedisSolvencyCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, solvencyKeyPrefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate solvency cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSolvencyCache) Close() error {
	return c.client.Close()
}
