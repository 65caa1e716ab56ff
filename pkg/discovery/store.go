package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// Store caches serialized coverage descriptions. Implementations must be
// safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Close() error
}

// LRUStore is an in-process Store bounded by entry count, with per-entry
// expiry checked on read.
type LRUStore struct {
	mu  sync.Mutex
	lru *lru.Cache[string, lruEntry]
}

type lruEntry struct {
	val      []byte
	deadline time.Time
}

func NewLRUStore(size int) *LRUStore {
	if size <= 0 {
		size = 256
	}
	c, _ := lru.New[string, lruEntry](size)
	return &LRUStore{lru: c}
}

func (s *LRUStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (s *LRUStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Add(key, lruEntry{val: val, deadline: deadline})
	return nil
}

func (s *LRUStore) Close() error { return nil }

// RedisOption configures the Redis connection of a RedisStore.
type RedisOption func(*redis.Options)

func WithDialTimeout(d time.Duration) RedisOption {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) RedisOption {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

func WithPoolSize(n int) RedisOption {
	return func(o *redis.Options) { o.PoolSize = n }
}

// RedisStore is a Store shared between processes, for fleets of tools
// hitting the same WCPS server.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(ctx context.Context, addr string, opts ...RedisOption) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("discovery: redis address is required")
	}
	ro := &redis.Options{
		Addr:        addr,
		PoolSize:    16,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 1 * time.Second,
	}
	for _, f := range opts {
		f(ro)
	}
	rdb := redis.NewClient(ro)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("discovery: redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("discovery: redis GET %q: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("discovery: redis SET %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if err := s.rdb.Close(); err != nil {
		return fmt.Errorf("discovery: redis close: %w", err)
	}
	return nil
}
