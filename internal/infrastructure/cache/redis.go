// Package cache provides the Redis layer used to keep sessions across
// restarts. When Redis is disabled or unreachable the session store falls
// back to memory only.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "fridgechef:session:"

// NewRedisClient creates a Redis client from config and verifies the
// connection with a ping.
func NewRedisClient(cfg *config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr()))
	return client, nil
}

// SessionCache persists session records in Redis with a TTL
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionCache creates a session cache on top of an existing client
func NewSessionCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionCache {
	return &SessionCache{client: client, ttl: ttl, logger: logger}
}

// Set stores the record under the session ID, refreshing the TTL
func (c *SessionCache) Set(ctx context.Context, sessionID string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return c.client.Set(ctx, sessionKeyPrefix+sessionID, data, c.ttl).Err()
}

// Get loads a record into dest. Returns false when the session is absent.
func (c *SessionCache) Get(ctx context.Context, sessionID string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal session: %w", err)
	}
	return true, nil
}

// Delete removes a session record
func (c *SessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
