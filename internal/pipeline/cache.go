package pipeline

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"codedigest/internal/filemap"
)

// Cache holds recent ingestion results keyed by run identity. It is an
// explicit convenience cache with explicit invalidation, not ambient global
// state: callers construct one, key it, and own its lifetime.
type Cache struct {
	lru *lru.Cache[string, *Result]
}

// NewCache builds a bounded result cache. size<=0 falls back to a single
// entry (the "last ingested repo" case).
func NewCache(size int) *Cache {
	if size <= 0 {
		size = 1
	}
	c, _ := lru.New[string, *Result](size)
	return &Cache{lru: c}
}

// Key derives the run identity for a repo label and its loaded FileMap.
// Identical maps yield identical keys, so re-ingesting an unchanged archive
// hits the cache.
func (c *Cache) Key(repo string, fm *filemap.FileMap) string {
	return repo + "@" + fm.Fingerprint()
}

// Get returns a cached result for the key.
func (c *Cache) Get(key string) (*Result, bool) {
	if c == nil || c.lru == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

// Put stores a completed run.
func (c *Cache) Put(key string, res *Result) {
	if c == nil || c.lru == nil || res == nil {
		return
	}
	c.lru.Add(key, res)
}

// Invalidate drops a key, forcing the next ingestion to recompute.
func (c *Cache) Invalidate(key string) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Remove(key)
}
