package sun

import (
	"sync"
	"time"

	"github.com/lox/akterm/internal/metrics"
)

// Cache memoizes Calculator results per local calendar date. It is safe for
// concurrent use; after Precompute all lookups for those dates are reads.
type Cache struct {
	calc    *Calculator
	mu      sync.RWMutex
	entries map[string]Times
}

func NewCache(calc *Calculator) *Cache {
	return &Cache{
		calc:    calc,
		entries: make(map[string]Times),
	}
}

// Location returns the timezone of the underlying calculator.
func (c *Cache) Location() *time.Location {
	return c.calc.Location()
}

func (c *Cache) key(t time.Time) string {
	return t.In(c.calc.Location()).Format(time.DateOnly)
}

// Get returns the sun events for the local date of t.
func (c *Cache) Get(t time.Time) (Times, error) {
	key := c.key(t)

	c.mu.RLock()
	times, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		metrics.SunCacheLookups.WithLabelValues("hit").Inc()
		return times, nil
	}
	metrics.SunCacheLookups.WithLabelValues("miss").Inc()

	times, err := c.calc.Times(t)
	if err != nil {
		return Times{}, err
	}

	c.mu.Lock()
	c.entries[key] = times
	c.mu.Unlock()
	return times, nil
}

// Precompute fills the cache for every distinct local date among ts and
// returns the number of dates computed.
func (c *Cache) Precompute(ts []time.Time) (int, error) {
	computed := 0
	for _, t := range ts {
		if t.IsZero() {
			continue
		}
		key := c.key(t)
		c.mu.RLock()
		_, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			continue
		}
		times, err := c.calc.Times(t)
		if err != nil {
			return computed, err
		}
		c.mu.Lock()
		c.entries[key] = times
		c.mu.Unlock()
		computed++
	}
	return computed, nil
}

// Len returns the number of cached dates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
