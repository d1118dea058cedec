// Package artifact provides Redis-backed storage for downloadable artifacts
// (the annotated image and the map dataset) produced by one plate analysis.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound は指定IDのアーティファクトが存在しない（または期限切れ）ことを表します。
var ErrNotFound = errors.New("artifact not found")

// ErrUnavailable はRedisが構成されていないことを表します。
var ErrUnavailable = errors.New("artifact store unavailable")

// RedisStore persists plate artifacts with a TTL. A nil Redis client degrades
// gracefully: saves become no-ops and reads return ErrUnavailable, mirroring
// how the service runs without its cache layer.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. If ttl is 0, it defaults to 1 hour.
// If prefix is empty, it uses "plate".
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if prefix == "" {
		prefix = "plate"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// imageKey returns the Redis key for an annotated image.
func (s *RedisStore) imageKey(plateID string) string {
	return fmt.Sprintf("%s:%s:image", s.prefix, plateID)
}

// mapKey returns the Redis key for a map dataset.
func (s *RedisStore) mapKey(plateID string) string {
	return fmt.Sprintf("%s:%s:map", s.prefix, plateID)
}

// SaveAnnotatedImage stores the annotated JPEG for a plate.
func (s *RedisStore) SaveAnnotatedImage(ctx context.Context, plateID string, data []byte) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, s.imageKey(plateID), data, s.ttl).Err()
}

// AnnotatedImage retrieves the annotated JPEG for a plate.
func (s *RedisStore) AnnotatedImage(ctx context.Context, plateID string) ([]byte, error) {
	if s.rdb == nil {
		return nil, ErrUnavailable
	}
	data, err := s.rdb.Get(ctx, s.imageKey(plateID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// SaveMapDataset stores the GeoJSON map dataset for a plate.
func (s *RedisStore) SaveMapDataset(ctx context.Context, plateID string, data []byte) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, s.mapKey(plateID), data, s.ttl).Err()
}

// MapDataset retrieves the GeoJSON map dataset for a plate.
func (s *RedisStore) MapDataset(ctx context.Context, plateID string) ([]byte, error) {
	if s.rdb == nil {
		return nil, ErrUnavailable
	}
	data, err := s.rdb.Get(ctx, s.mapKey(plateID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
