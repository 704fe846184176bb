package redisblob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"secretto/internal/domain"
)

const blobPrefix = "blob:"

// DefaultTTL bounds how long an unreferenced encrypted blob survives.
const DefaultTTL = 7 * 24 * time.Hour

// Store holds encrypted blobs in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New wraps a Redis client. A non-positive ttl falls back to DefaultTTL.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Put stores data under a fresh id with the configured TTL.
func (s *Store) Put(ctx context.Context, data []byte) (string, error) {
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, blobPrefix+id, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return id, nil
}

// Get returns the blob for id. An expired or unknown id is an ordinary
// miss, not an error.
func (s *Store) Get(ctx context.Context, id string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, blobPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetch blob: %w", err)
	}
	return data, true, nil
}

// Compile-time assertion that Store implements domain.BlobStore.
var _ domain.BlobStore = (*Store)(nil)
