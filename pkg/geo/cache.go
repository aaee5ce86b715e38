package geo

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize bounds the in-memory geocode cache.
const DefaultCacheSize = 512

// CachedResolver wraps a Resolver with a bounded LRU keyed by normalized
// address text. Entries are immutable once written; an address does not
// change coordinates within a session. Concurrent misses for the same key
// collapse into a single upstream call. An optional Store adds a persistent
// read-through layer; a missing or cold store behaves exactly like a cold
// cache and is never a correctness dependency.
type CachedResolver struct {
	inner Resolver
	cache *lru.Cache[string, Coordinates]
	group singleflight.Group
	store *Store
}

// NewCachedResolver builds the caching layer. size <= 0 uses
// DefaultCacheSize; store may be nil for memory-only operation.
func NewCachedResolver(inner Resolver, size int, store *Store) *CachedResolver {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, Coordinates](size)
	return &CachedResolver{inner: inner, cache: cache, store: store}
}

// NormalizeAddress canonicalizes free-text addresses for cache identity:
// lowercase, trimmed, inner whitespace collapsed.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

func (r *CachedResolver) Resolve(ctx context.Context, address string) (Coordinates, error) {
	key := NormalizeAddress(address)
	if key == "" {
		return Coordinates{}, &ResolutionError{Address: address, Reason: "empty address"}
	}

	if coords, ok := r.cache.Get(key); ok {
		return coords, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		// Re-check: an earlier flight may have filled the cache while
		// this caller was queued on the group.
		if coords, ok := r.cache.Get(key); ok {
			return coords, nil
		}
		if r.store != nil {
			if coords, ok, err := r.store.Get(ctx, key); err == nil && ok {
				r.cache.Add(key, coords)
				return coords, nil
			}
		}
		coords, err := r.inner.Resolve(ctx, address)
		if err != nil {
			return Coordinates{}, err
		}
		r.cache.Add(key, coords)
		if r.store != nil {
			// Persistence is best effort; a write failure only costs
			// a future re-resolution.
			_ = r.store.Put(ctx, key, coords)
		}
		return coords, nil
	})
	if err != nil {
		return Coordinates{}, err
	}
	return v.(Coordinates), nil
}
