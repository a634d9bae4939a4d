package discovery

import (
	"fmt"
	"time"

	"github.com/projectdiscovery/gcache"
)

// cacheSize bounds the number of subnets kept. One engine rarely sees more
// than a handful.
const cacheSize = 16

type cacheEntry struct {
	hosts      []HostRecord
	capturedAt time.Time
}

// resultCache keeps the last discovery result per /24 prefix. Validity is
// decided against the engine clock; gcache expiration only reclaims memory.
type resultCache struct {
	enabled bool
	ttl     time.Duration
	store   gcache.Cache[string, *cacheEntry]
	lastKey string
}

func newResultCache(enabled bool, ttl time.Duration) *resultCache {
	c := &resultCache{enabled: enabled, ttl: ttl}
	c.reset()
	return c
}

func (c *resultCache) reset() {
	builder := gcache.New[string, *cacheEntry](cacheSize).LRU()
	if c.ttl > 0 {
		builder = builder.Expiration(c.ttl)
	}
	c.store = builder.Build()
	c.lastKey = ""
}

// get returns the snapshot for key when it is still valid at now. An empty key
// selects the most recently stored subnet.
func (c *resultCache) get(key string, now time.Time) ([]HostRecord, bool) {
	if !c.enabled || c.ttl <= 0 {
		return nil, false
	}
	if key == "" {
		key = c.lastKey
	}
	if key == "" {
		return nil, false
	}

	entry, err := c.store.Get(key)
	if err != nil || entry == nil {
		return nil, false
	}
	if len(entry.hosts) == 0 {
		return nil, false
	}
	if now.Sub(entry.capturedAt) >= c.ttl {
		return nil, false
	}
	return entry.hosts, true
}

// put replaces the snapshot for key. lastKey only moves once the store
// accepted the entry.
func (c *resultCache) put(key string, hosts []HostRecord, now time.Time) error {
	if !c.enabled || key == "" {
		return nil
	}
	if err := c.store.Set(key, &cacheEntry{hosts: hosts, capturedAt: now}); err != nil {
		return fmt.Errorf("caching %s: %w", key, err)
	}
	c.lastKey = key
	return nil
}
