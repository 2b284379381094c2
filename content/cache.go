package content

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// QueryCache is a cache-first store of raw GraphQL responses keyed by the
// query text and its variables. A zero TTL keeps entries for the life of
// the process.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	data    json.RawMessage
	fetched time.Time
}

// NewQueryCache creates an empty QueryCache.
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *QueryCache) valid(e cacheEntry) bool {
	return c.ttl <= 0 || c.now().Sub(e.fetched) < c.ttl
}

// Get returns the cached response for key if present and fresh.
func (c *QueryCache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.valid(e) {
		return nil, false
	}
	return e.data, true
}

// Put stores a response under key.
func (c *QueryCache) Put(key string, data json.RawMessage) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, fetched: c.now()}
	c.mu.Unlock()
}

// Invalidate clears the cache so the next read goes to the network.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len reports the number of cached entries, fresh or not.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKey builds a stable key from a query and its variables.
func cacheKey(query string, vars map[string]any) string {
	var b strings.Builder
	b.WriteString(strings.Join(strings.Fields(query), " "))
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := json.Marshal(vars[k])
		if err != nil {
			continue
		}
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.Write(v)
	}
	return b.String()
}
