package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "refresh:"

// RefreshStore allow-lists refresh token IDs. A refresh token whose jti is
// absent (expired, revoked, or never issued) cannot be exchanged for a new
// access token.
type RefreshStore interface {
	Save(ctx context.Context, jti string, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Delete(ctx context.Context, jti string) error
}

// RedisRefreshStore keeps the allow-list in Redis with per-entry TTL.
type RedisRefreshStore struct {
	rdb *redis.Client
}

// NewRedisRefreshStore returns a new RedisRefreshStore.
func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb}
}

func (s *RedisRefreshStore) Save(ctx context.Context, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, refreshKeyPrefix+jti, "1", ttl).Err()
}

func (s *RedisRefreshStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisRefreshStore) Delete(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, refreshKeyPrefix+jti).Err()
}

// MemoryRefreshStore is a map-backed RefreshStore for tests and local runs
// without Redis. Entries expire lazily on lookup.
type MemoryRefreshStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{entries: make(map[string]time.Time)}
}

func (s *MemoryRefreshStore) Save(ctx context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryRefreshStore) Exists(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(s.entries, jti)
		return false, nil
	}
	return true, nil
}

func (s *MemoryRefreshStore) Delete(ctx context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, jti)
	return nil
}
