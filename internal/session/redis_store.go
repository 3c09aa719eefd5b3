// Package session keeps the latest snapshot of each room in Redis so a
// relay restart does not lose the board.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

const (
	keyPrefix  = "sketch:room:"
	DefaultTTL = 24 * time.Hour
)

// RedisStore implements hub.SnapshotStore using Redis
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and checks the connection.
// A zero ttl means DefaultTTL.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(code string) string {
	return s.prefix + code
}

// SaveSnapshot overwrites the stored snapshot of a room and refreshes its TTL.
func (s *RedisStore) SaveSnapshot(ctx context.Context, code string, snap sketch.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(code), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns ok=false when nothing is stored for the room or the
// entry expired.
func (s *RedisStore) LoadSnapshot(ctx context.Context, code string) (sketch.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return sketch.Snapshot{}, false, nil
	}
	if err != nil {
		return sketch.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var snap sketch.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return sketch.Snapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap.Clone(), true, nil
}

func (s *RedisStore) DeleteSnapshot(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, s.key(code)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
