package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ragkit/ragkit-go/ragkit"
)

// RedisStore persists session history in a Redis list.
//
// Records are stored as JSON under a single key via RPUSH, so insertion
// order is preserved by the list itself. An optional TTL bounds session
// lifetime; the TTL is refreshed on every append.
//
// Example:
//
//	store := history.NewRedisStore(history.RedisConfig{
//	    Addr:       "localhost:6379",
//	    SessionKey: "ragkit:session:alice",
//	    TTL:        24 * time.Hour,
//	})
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// RedisConfig holds configuration for creating a RedisStore.
type RedisConfig struct {
	// Addr is the Redis server address (default: "localhost:6379").
	Addr string

	// Password is the Redis password (optional).
	Password string

	// DB is the Redis database number.
	DB int

	// SessionKey is the list key holding this session's records
	// (default: "ragkit:session:default").
	SessionKey string

	// TTL is the session expiry, refreshed on each append. Zero means
	// no expiry.
	TTL time.Duration
}

// NewRedisStore creates a Redis-backed history store.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.SessionKey == "" {
		cfg.SessionKey = "ragkit:session:default"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{
		client: client,
		key:    cfg.SessionKey,
		ttl:    cfg.TTL,
	}
}

// Append serializes the record and pushes it onto the end of the session list.
func (s *RedisStore) Append(ctx context.Context, record ragkit.QueryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh session TTL: %w", err)
		}
	}
	return nil
}

// List returns all records in insertion order.
func (s *RedisStore) List(ctx context.Context) ([]ragkit.QueryRecord, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	records := make([]ragkit.QueryRecord, 0, len(raw))
	for _, item := range raw {
		var record ragkit.QueryRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Clear deletes the session list.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
