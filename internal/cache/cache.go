// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache memoizes per-provider search results for the duration
// of one engine run, so repeated sentences never cost a second API call.
package cache

import (
	"strings"
	"sync"

	"github.com/tweakr/citation-engine/pkg/types"
)

type key struct {
	query    string
	provider string
}

// SearchCache maps (query, provider) pairs to the raw result lists the
// provider returned. Keys are case-insensitive in the query. The cache
// lives for one run and is safe for concurrent use.
type SearchCache struct {
	mu      sync.Mutex
	entries map[key][]types.PaperRecord
	hits    int
}

// New returns an empty run-scoped cache.
func New() *SearchCache {
	return &SearchCache{entries: make(map[key][]types.PaperRecord)}
}

// Get returns the cached result list for the query/provider pair.
// A hit counts even when the cached list is empty: an empty answer is
// still an answer.
func (c *SearchCache) Get(query, provider string) ([]types.PaperRecord, bool) {
	k := key{strings.ToLower(strings.TrimSpace(query)), provider}
	c.mu.Lock()
	defer c.mu.Unlock()
	recs, ok := c.entries[k]
	if ok {
		c.hits++
	}
	return recs, ok
}

// Put stores the provider's raw result list for the query.
func (c *SearchCache) Put(query, provider string, recs []types.PaperRecord) {
	k := key{strings.ToLower(strings.TrimSpace(query)), provider}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = recs
}

// Hits returns how many lookups were answered from the cache.
func (c *SearchCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Len returns how many query/provider pairs are cached.
func (c *SearchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
