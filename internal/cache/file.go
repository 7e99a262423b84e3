package cache

import log "github.com/sirupsen/logrus"

func (c *Cache) canBeCached(size int) bool {
	if c == nil {
		return false
	}
	return size <= MaxFileSize
}

// Get returns a copy of the cached content for the file stored at offset.
func (c *Cache) Get(offset uint64) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	buf, ok := c.files.Get(offset)
	if !ok {
		return nil, false
	}

	log.Debugf("cache hit for file at %#x", offset)
	return append([]byte(nil), buf...), true
}

// Add stores a copy of buf as the content of the file at offset. Files larger
// than MaxFileSize are ignored.
func (c *Cache) Add(offset uint64, buf []byte) {
	if !c.canBeCached(len(buf)) {
		return
	}

	if evicted := c.files.Add(offset, append([]byte(nil), buf...)); evicted {
		log.Debugf("cache full, evicted oldest file")
	}
}

// has returns true if the file at offset is cached.
func (c *Cache) has(offset uint64) bool {
	if c == nil {
		return false
	}
	return c.files.Contains(offset)
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.files.Len()
}

// Clear removes all files from the cache.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.files.Purge()
}
