// ABOUTME: Expirable LRU of rendered API responses.
// ABOUTME: Keys include the store revision, so any mutation makes old entries unreachable.
package api

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthlog_view_cache_hits_total",
		Help: "Rendered view cache hits",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthlog_view_cache_misses_total",
		Help: "Rendered view cache misses",
	})
)

// Cache defaults.
const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Minute
)

// viewCache holds encoded JSON bodies.
type viewCache struct {
	lru *expirable.LRU[string, []byte]
}

func newViewCache(size int, ttl time.Duration) *viewCache {
	return &viewCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func cacheKey(revision uint64, requestURI string) string {
	return fmt.Sprintf("%d|%s", revision, requestURI)
}

func (c *viewCache) get(key string) ([]byte, bool) {
	body, ok := c.lru.Get(key)
	if ok {
		cacheHitsTotal.Inc()
		return body, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

func (c *viewCache) set(key string, body []byte) {
	c.lru.Add(key, body)
}
