package web

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a fixed size ring of recently sent messages, keyed by
// their hash, so that repeated frames are sent as an index.
type cache struct {
	entries []cacheEntry
	idx     int
}

func newCache(size int) *cache {
	return &cache{entries: make([]cacheEntry, size)}
}

// index returns the position of hash in the cache, or -1.
func (c *cache) index(hash uint64) int {
	for i, e := range c.entries {
		if e.data != nil && e.hash == hash {
			return i
		}
	}

	return -1
}

// add stores data, evicting the oldest entry, and returns its
// index.
func (c *cache) add(hash uint64, data []byte) int {
	i := c.idx
	c.entries[i] = cacheEntry{hash: hash, data: data}
	c.idx = (c.idx + 1) % len(c.entries)
	return i
}
