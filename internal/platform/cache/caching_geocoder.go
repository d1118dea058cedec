package cache

import (
	"context"

	"platemap_backend/internal/feature/enrichment/domain/entity"
)

// Geocoder resolves a free-text place name into coordinates.
// The interface mirrors the enrichment usecase's Geocoder so this decorator
// can wrap any geocoding adapter transparently.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (entity.Coordinate, error)
}

// CachingGeocoder decorates a Geocoder with a bounded lookup cache.
// It is the single caching layer for geocode calls; misses and errors are
// passed through uncached so a transient failure can recover later.
type CachingGeocoder struct {
	inner Geocoder
	cache *Lookup[entity.Coordinate]
}

var _ Geocoder = (*CachingGeocoder)(nil)

// NewCachingGeocoder decorates inner with a cache of the given capacity.
func NewCachingGeocoder(inner Geocoder, capacity int) *CachingGeocoder {
	return &CachingGeocoder{
		inner: inner,
		cache: NewLookup[entity.Coordinate](capacity),
	}
}

// Geocode returns cached coordinates for place, delegating to the wrapped
// geocoder on a miss.
func (g *CachingGeocoder) Geocode(ctx context.Context, place string) (entity.Coordinate, error) {
	return g.cache.GetOrCompute(ctx, place, func(ctx context.Context) (entity.Coordinate, error) {
		return g.inner.Geocode(ctx, place)
	})
}
