package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"InvestScore/internal/domain/models"
	domsvc "InvestScore/internal/domain/service"
)

// RedisPredictionCache shares predictions across replicas through Redis.
// Values are JSON; expiry is delegated to Redis TTLs.
type RedisPredictionCache struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures the Redis-backed cache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisPredictionCache connects to Redis and verifies it with a ping.
func NewRedisPredictionCache(opts RedisOptions) (*RedisPredictionCache, error) {
	if opts.Prefix == "" {
		opts.Prefix = "investscore"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisPredictionCache{client: client, prefix: opts.Prefix}, nil
}

// NewRedisPredictionCacheWithClient wraps an existing client. Used by tests.
func NewRedisPredictionCacheWithClient(client *redis.Client, prefix string) *RedisPredictionCache {
	if prefix == "" {
		prefix = "investscore"
	}
	return &RedisPredictionCache{client: client, prefix: prefix}
}

func (c *RedisPredictionCache) Get(ctx context.Context, instrument string, horizon models.Horizon) (*models.Prediction, bool, error) {
	data, err := c.client.Get(ctx, c.wrapKey(instrument, horizon)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var p models.Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("unmarshal prediction: %w", err)
	}
	return &p, true, nil
}

func (c *RedisPredictionCache) Put(ctx context.Context, p *models.Prediction, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}
	return c.client.Set(ctx, c.wrapKey(p.Instrument, p.Horizon), data, ttl).Err()
}

func (c *RedisPredictionCache) Invalidate(ctx context.Context, instrument string, horizon models.Horizon) error {
	return c.client.Del(ctx, c.wrapKey(instrument, horizon)).Err()
}

// Health pings the Redis backend.
func (c *RedisPredictionCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisPredictionCache) Close() error {
	return c.client.Close()
}

func (c *RedisPredictionCache) wrapKey(instrument string, horizon models.Horizon) string {
	return fmt.Sprintf("%s:prediction:%s", c.prefix, Key(instrument, horizon))
}

var _ domsvc.PredictionCache = (*RedisPredictionCache)(nil)
