package ga

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedFitnessFunction memoizes another fitness function by chromosome
// representation, so re-bred duplicates are not evaluated again.
type CachedFitnessFunction struct {
	inner  FitnessFunction
	cache  *lru.Cache[string, float64]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCachedFitnessFunction(inner FitnessFunction, size int) (*CachedFitnessFunction, error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: nil fitness function", ErrInvalidArgument)
	}
	cache, err := lru.New[string, float64](size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return &CachedFitnessFunction{inner: inner, cache: cache}, nil
}

func (f *CachedFitnessFunction) Evaluate(c *Chromosome) float64 {
	key := c.PersistentRepresentation()
	if v, ok := f.cache.Get(key); ok {
		f.hits.Add(1)
		return v
	}
	f.misses.Add(1)
	v := f.inner.Evaluate(c)
	f.cache.Add(key, v)
	return v
}

// Stats returns cache hits and misses so far
func (f *CachedFitnessFunction) Stats() (hits, misses uint64) {
	return f.hits.Load(), f.misses.Load()
}

func (f *CachedFitnessFunction) Len() int { return f.cache.Len() }
