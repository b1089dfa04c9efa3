// Package cache implements the process-wide response cache (C4): a
// size-bounded, FIFO-evicted mapping from canonical URI string to a full
// httpmsg.Response, safe for concurrent lookups and inserts across many
// in-flight connections.
package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/relay/pkg/httpmsg"
)

var (
	hitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "The total number of cache lookups that found an entry.",
	})
	missesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "The total number of cache lookups that found no entry.",
	})
	evictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "The total number of entries evicted to stay under the byte bound.",
	})
	insertRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "cache",
		Name:      "insert_rejected_total",
		Help:      "The total number of inserts rejected for exceeding the per-entry content bound.",
	})
	entriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "cache",
		Name:      "entries",
		Help:      "The current number of entries held in the cache.",
	})
	bytesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "cache",
		Name:      "bytes",
		Help:      "The current sum of cached response content lengths.",
	})
)

func init() {
	prometheus.MustRegister(hitsTotal, missesTotal, evictionsTotal, insertRejectedTotal, entriesGauge, bytesGauge)
}

// Cache is the response cache contract the connection handler (C7)
// depends on.
type Cache interface {
	Lookup(uri string) (httpmsg.Response, bool)
	Insert(uri string, resp httpmsg.Response)
}

// Memory is the single in-process implementation: one mutex guards
// entries, order, and the running byte total, matching the spec's
// "simplest correct design holds the lock across both [insert and evict]".
type Memory struct {
	maxCacheSize   int64
	maxContentSize int64

	mu      sync.Mutex
	entries map[string]httpmsg.Response
	order   []string
	bytes   int64
}

// New returns an empty Memory cache bounded by maxCacheSize total payload
// bytes, rejecting any single response whose content exceeds
// maxContentSize.
func New(maxCacheSize, maxContentSize int64) *Memory {
	return &Memory{
		maxCacheSize:   maxCacheSize,
		maxContentSize: maxContentSize,
		entries:        make(map[string]httpmsg.Response),
	}
}

// Lookup returns a copy of the stored response for uri, if present. The
// FIFO order is not touched: a hit is not a move-to-front.
func (c *Memory) Lookup(uri string) (httpmsg.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, ok := c.entries[uri]
	if !ok {
		missesTotal.Inc()
		return httpmsg.Response{}, false
	}
	hitsTotal.Inc()
	return resp.Clone(), true
}

// Insert admits resp under uri unless its content exceeds
// maxContentSize, in which case it is a no-op. A prior entry for the
// same uri is replaced and its old occurrence in order removed before
// the fresh one is appended, keeping entries.keys == set(order). After
// insertion, evicts from the front until bytes is back within bound.
func (c *Memory) Insert(uri string, resp httpmsg.Response) {
	size := int64(len(resp.Content))
	if size > c.maxContentSize {
		insertRejectedTotal.Inc()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, replaced := c.entries[uri]; replaced {
		c.bytes -= int64(len(old.Content))
		c.removeFromOrder(uri)
	}

	c.entries[uri] = resp.Clone()
	c.order = append(c.order, uri)
	c.bytes += size

	c.evictLocked()
	c.reportLocked()
}

// removeFromOrder drops the first occurrence of uri from order. Must be
// called with mu held.
func (c *Memory) removeFromOrder(uri string) {
	for i, u := range c.order {
		if u == uri {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// evictLocked pops from the front of order while bytes exceeds the
// bound. Must be called with mu held.
func (c *Memory) evictLocked() {
	for c.bytes > c.maxCacheSize && len(c.order) > 0 {
		front := c.order[0]
		c.order = c.order[1:]
		if evicted, ok := c.entries[front]; ok {
			c.bytes -= int64(len(evicted.Content))
			delete(c.entries, front)
			evictionsTotal.Inc()
		}
	}
}

func (c *Memory) reportLocked() {
	entriesGauge.Set(float64(len(c.entries)))
	bytesGauge.Set(float64(c.bytes))
}

// Len returns the current entry count, for tests and /debug/cache.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Snapshot returns the cache's URIs in FIFO order, for /debug/cache.
func (c *Memory) Snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
