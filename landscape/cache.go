package landscape

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/worklens-org/worklens/dataset"
)

// ============================================================================
// CACHE — Memoized derivation, keyed by content
// ============================================================================
// Deriving is cheap but not free, and a dashboard asks for the same
// landscape over and over. The key hashes the bundle's version token
// together with the derivation parameters, so a hit can only serve the
// exact same inputs: new data or new thresholds always derive fresh.
// Entries are replaced, never mutated.
// ============================================================================

// Cache memoizes Derive. The caller owns it, typically one per session.
// The zero value is not usable; call NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Landscape
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Landscape)}
}

// Landscape returns the derived table for the bundle and parameters,
// deriving on first sight. Derivation failures are returned, not cached.
func (c *Cache) Landscape(tables *dataset.Tables, params Params) (*Landscape, error) {
	key := cacheKey(tables.Version(), params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if ls, ok := c.entries[key]; ok {
		return ls, nil
	}
	ls, err := Derive(tables, params)
	if err != nil {
		return nil, err
	}
	c.entries[key] = ls
	return ls, nil
}

// Len reports how many distinct (bundle, params) pairs are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Landscape)
}

func cacheKey(version string, params Params) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x1f%s", version, params.key())
	return hex.EncodeToString(h.Sum(nil))
}
