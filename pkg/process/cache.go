// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package process

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded pid -> Info cache in front of a Finder. Exec events
// populate it, exit events evict, and the LRU bound keeps it from growing
// with pid churn when exits are missed.
type Cache struct {
	cache  *lru.Cache[uint32, Info]
	finder *Finder
}

func NewCache(size int, finder *Finder) (*Cache, error) {
	c, err := lru.New[uint32, Info](size)
	if err != nil {
		return nil, err
	}
	return &Cache{cache: c, finder: finder}, nil
}

// Get returns the cached Info for pid, falling back to a procfs lookup.
func (c *Cache) Get(pid uint32) (Info, error) {
	if info, ok := c.cache.Get(pid); ok {
		return info, nil
	}
	info, err := c.finder.Lookup(pid)
	if err != nil {
		return Info{}, err
	}
	c.cache.Add(pid, info)
	return info, nil
}

// Refresh re-reads pid from procfs, replacing any cached entry. Used on
// exec events since the image (and so comm/exe) just changed.
func (c *Cache) Refresh(pid uint32) (Info, error) {
	info, err := c.finder.Lookup(pid)
	if err != nil {
		c.cache.Remove(pid)
		return Info{}, err
	}
	c.cache.Add(pid, info)
	return info, nil
}

// Cached returns the entry for pid without touching procfs. This is the
// only way to still get metadata for a process that already exited.
func (c *Cache) Cached(pid uint32) (Info, bool) {
	return c.cache.Get(pid)
}

// Remove drops pid from the cache, typically on its exit event.
func (c *Cache) Remove(pid uint32) {
	c.cache.Remove(pid)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.cache.Len()
}
