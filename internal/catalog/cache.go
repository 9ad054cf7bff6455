package catalog

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"draftlite/internal/card"
)

const defaultCacheSize = 512

// CachedLookup sits in front of one or more Databases (typically a
// user-supplied upload shadowing a large baseline catalog) and memoizes
// name lookups for the duration of a single launch request's card list
// walk.
type CachedLookup struct {
	layers []*Database
	cache  *lru.Cache[string, card.Card]
}

// NewCachedLookup builds a lookup that tries layers in order (first
// match wins — pass the user-uploaded database before the baseline so it
// shadows matching names).
func NewCachedLookup(layers ...*Database) *CachedLookup {
	cache, err := lru.New[string, card.Card](defaultCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// defaultCacheSize never is.
		panic(err)
	}
	return &CachedLookup{layers: layers, cache: cache}
}

// Lookup resolves name against the layered databases, memoizing hits.
func (c *CachedLookup) Lookup(name string) (card.Card, bool) {
	if cached, ok := c.cache.Get(name); ok {
		return cached, true
	}
	for _, db := range c.layers {
		if found, ok := db.Lookup(name); ok {
			c.cache.Add(name, found)
			return found, true
		}
	}
	return card.Card{}, false
}
