// Package preference persists paginator preferences outside the process.
package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"forum-reader/internal/common/pagination"
)

// DefaultKeyPrefix namespaces preference keys in a shared Redis.
const DefaultKeyPrefix = "forum:pref:"

// RedisStore implements pagination.PreferenceStore on Redis. Each
// preference is one JSON string key with a TTL refreshed on write.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store. A non-positive ttl keeps keys forever.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: DefaultKeyPrefix, ttl: ttl}
}

func (s *RedisStore) key(owner, contextKey string) string {
	return s.prefix + owner + ":" + contextKey
}

// Load implements pagination.PreferenceStore.
func (s *RedisStore) Load(ctx context.Context, owner, contextKey string) (*pagination.Preference, error) {
	raw, err := s.client.Get(ctx, s.key(owner, contextKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LoadPreference: %w", err)
	}
	var pref pagination.Preference
	if err := json.Unmarshal(raw, &pref); err != nil {
		return nil, fmt.Errorf("LoadPreference: decode: %w", err)
	}
	return &pref, nil
}

// Save implements pagination.PreferenceStore.
func (s *RedisStore) Save(ctx context.Context, owner, contextKey string, pref pagination.Preference) error {
	payload, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("SavePreference: encode: %w", err)
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(owner, contextKey), payload, ttl).Err(); err != nil {
		return fmt.Errorf("SavePreference: %w", err)
	}
	return nil
}

// NewRedisClient connects to addr. It returns (nil, nil) when addr is empty
// so callers can fall back to the in-memory store.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	slog.Info("redis preference store connected", slog.String("addr", addr), slog.Int("db", db))
	return rdb, nil
}
