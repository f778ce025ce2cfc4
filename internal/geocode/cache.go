package geocode

import (
	"context"
	"log"

	"github.com/lox/paradecast/internal/metrics"
	"github.com/lox/paradecast/internal/models"
)

// Cache stores resolved coordinates keyed by the queried name.
type Cache interface {
	GetGeocode(name string) (models.Coordinates, bool, error)
	PutGeocode(name string, coords models.Coordinates) error
}

// CachedResolver wraps a Resolver with a cache. Cache failures are logged and
// treated as misses so a broken cache never breaks resolution.
type CachedResolver struct {
	inner Resolver
	cache Cache
}

func NewCachedResolver(inner Resolver, cache Cache) *CachedResolver {
	return &CachedResolver{inner: inner, cache: cache}
}

func (c *CachedResolver) Resolve(ctx context.Context, name string) (models.Coordinates, error) {
	if coords, ok, err := c.cache.GetGeocode(name); err != nil {
		log.Printf("geocode cache read %q: %v", name, err)
	} else if ok {
		metrics.CacheRequestsTotal.WithLabelValues("geocode", "hit").Inc()
		return coords, nil
	} else {
		metrics.CacheRequestsTotal.WithLabelValues("geocode", "miss").Inc()
	}

	coords, err := c.inner.Resolve(ctx, name)
	if err != nil {
		// Not-found responses are not cached so a later retry can succeed
		// once the upstream index catches up.
		return coords, err
	}

	if err := c.cache.PutGeocode(name, coords); err != nil {
		log.Printf("geocode cache write %q: %v", name, err)
	}
	return coords, nil
}
