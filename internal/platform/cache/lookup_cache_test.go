package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platemap_backend/internal/feature/enrichment/domain/entity"
)

func TestLookup_GetOrCompute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success: compute runs once per key", func(t *testing.T) {
		t.Parallel()

		l := NewLookup[string](10)
		calls := 0
		compute := func(ctx context.Context) (string, error) {
			calls++
			return "value", nil
		}

		for i := 0; i < 5; i++ {
			v, err := l.GetOrCompute(ctx, "pizza", compute)
			require.NoError(t, err)
			assert.Equal(t, "value", v)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("success: keys are case-normalized", func(t *testing.T) {
		t.Parallel()

		l := NewLookup[string](10)
		calls := 0
		compute := func(ctx context.Context) (string, error) {
			calls++
			return "v", nil
		}

		_, err := l.GetOrCompute(ctx, "Pizza", compute)
		require.NoError(t, err)
		_, err = l.GetOrCompute(ctx, " pizza ", compute)
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, l.Len())
	})

	t.Run("failure: errors are not cached", func(t *testing.T) {
		t.Parallel()

		l := NewLookup[string](10)
		calls := 0
		boom := errors.New("upstream down")

		_, err := l.GetOrCompute(ctx, "pizza", func(ctx context.Context) (string, error) {
			calls++
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, l.Len())

		v, err := l.GetOrCompute(ctx, "pizza", func(ctx context.Context) (string, error) {
			calls++
			return "recovered", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "recovered", v)
		assert.Equal(t, 2, calls)
	})
}

// 同一キーへの並行アクセスで計算が1回しか走らないことを検証します。
func TestLookup_SingleFlight(t *testing.T) {
	t.Parallel()

	l := NewLookup[string](10)
	var calls atomic.Int32

	compute := func(ctx context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond) // 他のゴルーチンが合流する猶予
		return "shared", nil
	}

	const workers = 20
	var wg sync.WaitGroup
	results := make([]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := l.GetOrCompute(context.Background(), "ramen", compute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "compute should run exactly once")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestLookup_LRUEviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := NewLookup[int](3)

	fill := func(key string, val int) {
		_, err := l.GetOrCompute(ctx, key, func(ctx context.Context) (int, error) {
			return val, nil
		})
		require.NoError(t, err)
	}

	fill("a", 1)
	fill("b", 2)
	fill("c", 3)
	require.Equal(t, 3, l.Len())

	// "a" を最近使用にしてから溢れさせると、最古の "b" が追い出される
	fill("a", 1)
	fill("d", 4)

	assert.Equal(t, 3, l.Len(), "exactly one entry evicted per overflow")
	assert.True(t, l.Contains("a"))
	assert.False(t, l.Contains("b"))
	assert.True(t, l.Contains("c"))
	assert.True(t, l.Contains("d"))
}

// 容量+1件の挿入で、溢れるたびにちょうど1件ずつ追い出されることを検証します。
func TestLookup_EvictionIsDeterministic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	const capacity = 5
	l := NewLookup[int](capacity)

	for i := 0; i < capacity+3; i++ {
		key := fmt.Sprintf("key-%d", i)
		_, err := l.GetOrCompute(ctx, key, func(ctx context.Context) (int, error) {
			return i, nil
		})
		require.NoError(t, err)
		if i < capacity {
			assert.Equal(t, i+1, l.Len())
		} else {
			assert.Equal(t, capacity, l.Len())
		}
	}

	// 挿入順アクセスなので、残るのは末尾 capacity 件
	for i := 0; i < 3; i++ {
		assert.False(t, l.Contains(fmt.Sprintf("key-%d", i)))
	}
	for i := 3; i < capacity+3; i++ {
		assert.True(t, l.Contains(fmt.Sprintf("key-%d", i)))
	}
}

// mockGeocoder はGeocoderインターフェースのモック実装です。
type mockGeocoder struct {
	GeocodeFunc  func(ctx context.Context, place string) (entity.Coordinate, error)
	GeocodeCalls int
}

func (m *mockGeocoder) Geocode(ctx context.Context, place string) (entity.Coordinate, error) {
	m.GeocodeCalls++
	if m.GeocodeFunc != nil {
		return m.GeocodeFunc(ctx, place)
	}
	return entity.Coordinate{}, errors.New("GeocodeFunc is not implemented")
}

func TestCachingGeocoder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success: second lookup served from cache", func(t *testing.T) {
		t.Parallel()

		inner := &mockGeocoder{
			GeocodeFunc: func(ctx context.Context, place string) (entity.Coordinate, error) {
				return entity.Coordinate{Latitude: 40.85, Longitude: 14.27}, nil
			},
		}
		g := NewCachingGeocoder(inner, 10)

		for i := 0; i < 3; i++ {
			loc, err := g.Geocode(ctx, "Naples")
			require.NoError(t, err)
			assert.InDelta(t, 40.85, loc.Latitude, 0.001)
			assert.InDelta(t, 14.27, loc.Longitude, 0.001)
		}
		assert.Equal(t, 1, inner.GeocodeCalls)
	})

	t.Run("failure: misses are not cached", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("no result")
		inner := &mockGeocoder{
			GeocodeFunc: func(ctx context.Context, place string) (entity.Coordinate, error) {
				return entity.Coordinate{}, boom
			},
		}
		g := NewCachingGeocoder(inner, 10)

		_, err := g.Geocode(ctx, "Xyzzy")
		assert.ErrorIs(t, err, boom)
		_, err = g.Geocode(ctx, "Xyzzy")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, inner.GeocodeCalls)
	})
}
