package auth

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// RevocationStore records revoked token identifiers. Entries are write-once and
// disappear only when their TTL lapses.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationStore keeps the blocklist in Redis, keyed by the bare jti.
type RedisRevocationStore struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisRevocationStore builds a Redis-backed blocklist. timeout bounds each round trip.
func NewRedisRevocationStore(client *redis.Client, ttl, timeout time.Duration) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, ttl: ttl, timeout: timeout}
}

// Revoke stores an empty sentinel under jti.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Set(ctx, jti, "", s.ttl).Err(); err != nil {
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether jti is on the blocklist. A miss is not an error.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	n, err := s.client.Exists(ctx, jti).Result()
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", jti, err)
	}
	return n > 0, nil
}

func (s *RedisRevocationStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// MemoryRevocationStore is a process-local blocklist for single-instance deployments.
type MemoryRevocationStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryRevocationStore builds an in-memory blocklist with the given entry TTL.
func NewMemoryRevocationStore(ttl time.Duration) *MemoryRevocationStore {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &MemoryRevocationStore{cache: gocache.New(ttl, cleanup), ttl: ttl}
}

// Revoke adds jti to the blocklist.
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string) error {
	s.cache.Set(jti, struct{}{}, s.ttl)
	return nil
}

// IsRevoked reports whether jti is on the blocklist.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
