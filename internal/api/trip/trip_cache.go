package trip

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

// Cache holds generated trips for a fixed TTL. It owns its sweeper goroutine,
// which Close stops.
type Cache struct {
	items *cache.Cache
	stop  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewCache starts a sweeper that drops expired trips every sweepInterval.
// Get never returns an expired trip, whether or not the sweep has run.
func NewCache(ttl, sweepInterval time.Duration) *Cache {
	c := &Cache{
		items: cache.New(ttl, cache.NoExpiration),
		stop:  make(chan struct{}),
	}
	if sweepInterval > 0 {
		c.wg.Add(1)
		go c.sweep(sweepInterval)
	}
	return c
}

func (c *Cache) sweep(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.items.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) Get(key string) (*types.Trip, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*types.Trip), true
}

// Put replaces any existing entry for key.
func (c *Cache) Put(key string, trip *types.Trip) {
	c.items.SetDefault(key, trip)
}

// Len counts entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Close stops the sweeper. It is safe to call more than once.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.stop)
		c.wg.Wait()
	})
}
