// Package results memoizes classification labels by text fingerprint.
//
// The cache is unbounded: entries are never evicted or expired and live until
// the process exits. Labels are a pure function of text, so an entry never
// needs to change once written.
package results

import (
	"sync"
	"sync/atomic"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/fingerprint"
)

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache maps fingerprints to labels. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[fingerprint.Fingerprint]classifier.Label
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[fingerprint.Fingerprint]classifier.Label),
	}
}

// Get returns the label stored for fp. It never blocks on external work.
func (c *Cache) Get(fp fingerprint.Fingerprint) (classifier.Label, bool) {
	c.mu.RLock()
	label, ok := c.entries[fp]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return label, ok
}

// Peek returns the label stored for fp without counting a hit or miss.
func (c *Cache) Peek(fp fingerprint.Fingerprint) (classifier.Label, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	label, ok := c.entries[fp]
	return label, ok
}

// Put stores label under fp. Rewriting an existing entry is allowed.
func (c *Cache) Put(fp fingerprint.Fingerprint, label classifier.Label) {
	c.mu.Lock()
	c.entries[fp] = label
	c.mu.Unlock()
}

// Len returns the number of retained entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns entry and lookup counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
