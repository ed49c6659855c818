package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

const latestKey = "rates:latest"

// RistrettoLatestCache holds the latest-rates response between collection
// cycles. There is a single entry; it is dropped whenever a new batch is
// committed.
type RistrettoLatestCache struct {
	cache *ristretto.Cache
}

func NewLatestCache() (*RistrettoLatestCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 64,
		MaxCost:     8,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create latest rates cache failed: %w", err)
	}
	return &RistrettoLatestCache{cache: c}, nil
}

func (c *RistrettoLatestCache) Get() ([]domain.RateRecord, bool) {
	if v, ok := c.cache.Get(latestKey); ok {
		records, ok := v.([]domain.RateRecord)
		return records, ok
	}
	return nil, false
}

func (c *RistrettoLatestCache) Set(records []domain.RateRecord) {
	c.cache.Set(latestKey, records, 1)
	// ristretto admits asynchronously; Wait makes the entry visible to the
	// next read, which keeps read-through behavior deterministic.
	c.cache.Wait()
}

func (c *RistrettoLatestCache) Invalidate() {
	c.cache.Del(latestKey)
}

func (c *RistrettoLatestCache) Close() { c.cache.Close() }
