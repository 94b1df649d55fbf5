package fetchcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds the configuration for the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces this store's entries so Clear only touches its own
	// keys. Multiple replicas sharing one Redis share warm entries this way.
	KeyPrefix string
}

// RedisStore is a distributed Store implementation backed by Redis. Expiry is
// delegated to Redis TTLs, so a read never observes a stale entry and no lazy
// cleanup is needed.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	logger    zerolog.Logger
}

// NewRedisStore creates and connects a new RedisStore. It pings the Redis
// server to ensure connectivity before returning.
func NewRedisStore(ctx context.Context, cfg *RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("redis_address", cfg.Addr).Msg("Successfully connected to Redis.")

	return &RedisStore{
		client:    rdb,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger.With().Str("component", "RedisStore").Logger(),
	}, nil
}

// Get returns the value for key. A redis.Nil reply is a normal miss; any
// other error is returned to the caller to decide whether to treat the read
// as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Unexpected Redis error during get.")
		return nil, false, fmt.Errorf("redis get for %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with the given TTL, overwriting any existing
// entry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to set entry in Redis.")
		return fmt.Errorf("redis set for %s: %w", key, err)
	}
	return nil
}

// Clear removes every entry under this store's key prefix via SCAN so other
// tenants of the same Redis database are untouched.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan during clear: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del during clear: %w", err)
	}
	s.logger.Debug().Int("keys", len(keys)).Msg("Cleared Redis store.")
	return nil
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	s.logger.Info().Msg("Closing Redis client connection...")
	return s.client.Close()
}
