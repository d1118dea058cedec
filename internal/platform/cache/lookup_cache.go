// Package cache provides bounded memoization for external lookups.
//
// Each lookup kind (origins, nutrition, fact, geocode) gets its own Lookup
// instance with a fixed capacity. Eviction is least-recently-used via
// hashicorp/golang-lru, which is deterministic under repeated access
// patterns. Keys are trimmed and lowercased before use, so "Pizza" and
// "pizza " share one entry.
package cache

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity はルックアップ種別ごとのデフォルトエントリ上限です。
const DefaultCapacity = 50

// Lookup is a bounded, concurrency-safe memoization layer in front of a
// single lookup kind. Concurrent callers for the same key share one
// in-flight compute; failed computes are not cached.
type Lookup[V any] struct {
	lru   *lru.Cache[string, V]
	group singleflight.Group
}

// NewLookup creates a Lookup with the given capacity.
// Capacities below 1 fall back to DefaultCapacity.
func NewLookup[V any](capacity int) *Lookup[V] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for non-positive sizes, which are clamped above.
	c, _ := lru.New[string, V](capacity)
	return &Lookup[V]{lru: c}
}

// GetOrCompute returns the cached value for key, or runs compute and caches
// its result. At most one compute runs per key at a time; concurrent callers
// for the same key block and receive the shared result. The context of the
// caller that triggered the compute drives it.
func (l *Lookup[V]) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (V, error)) (V, error) {
	k := NormalizeKey(key)

	if v, ok := l.lru.Get(k); ok {
		return v, nil
	}

	v, err, _ := l.group.Do(k, func() (any, error) {
		// Re-check: a previous flight may have filled the entry between
		// the miss above and acquiring the flight.
		if v, ok := l.lru.Get(k); ok {
			return v, nil
		}
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		l.lru.Add(k, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Len は現在のエントリ数を返します。
func (l *Lookup[V]) Len() int {
	return l.lru.Len()
}

// Contains reports whether key is currently cached, without updating recency.
func (l *Lookup[V]) Contains(key string) bool {
	return l.lru.Contains(NormalizeKey(key))
}

// NormalizeKey はキャッシュキーを正規化します（前後空白除去＋小文字化）。
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
