package cellr

import (
	"github.com/dgraph-io/ristretto/v2"
)

const (
	DefaultRistrettoNumCounters = 10 * 500 * 1024
	DefaultRistrettoMaxCost     = 50 * 1024
	DefaultRistrettoBufferItems = 64
)

// Cacher stores resolved cell records keyed by token. Resolving a cell is
// pure computation, so entries never need invalidation; the cache only
// bounds memory.
type Cacher interface {
	Get(key string) (CellRecord, bool)
	Set(key string, value CellRecord) bool
	Close()
	Clear()
}

type RistrettoCacheOption = func(rc *ristretto.Config[string, CellRecord])

// WithMaxCost overrides the cache cost budget.
func WithMaxCost(maxCost int64) RistrettoCacheOption {
	return func(rc *ristretto.Config[string, CellRecord]) {
		rc.MaxCost = maxCost
	}
}

// WithNumCounters overrides the number of admission counters.
func WithNumCounters(numCounters int64) RistrettoCacheOption {
	return func(rc *ristretto.Config[string, CellRecord]) {
		rc.NumCounters = numCounters
	}
}

func NewRistrettoCache(opts ...RistrettoCacheOption) (*RistrettoCache, error) {
	cfg := &ristretto.Config[string, CellRecord]{
		NumCounters: DefaultRistrettoNumCounters,
		MaxCost:     DefaultRistrettoMaxCost,
		BufferItems: DefaultRistrettoBufferItems,
	}

	for _, o := range opts {
		o(cfg)
	}

	cache, err := ristretto.NewCache(cfg)
	if err != nil {
		return &RistrettoCache{}, err
	}

	return &RistrettoCache{
		cache: cache,
	}, nil
}

type RistrettoCache struct {
	cache *ristretto.Cache[string, CellRecord]
}

func (rc *RistrettoCache) Get(key string) (CellRecord, bool) {
	return rc.cache.Get(key)
}

func (rc *RistrettoCache) Set(key string, value CellRecord) bool {
	ok := rc.cache.Set(key, value, 1)
	rc.cache.Wait()

	return ok
}

func (rc *RistrettoCache) Close() {
	rc.cache.Close()
}

func (rc *RistrettoCache) Clear() {
	rc.cache.Clear()
}
