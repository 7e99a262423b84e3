// Package cache keeps the contents of recently read archive files in memory.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/errors"
)

// MaxFileSize is the largest file that is kept in the cache.
const MaxFileSize = 4 * 1024 * 1024

// Cache manages a bounded set of file contents, keyed by the offset of the
// file data within the archive. A nil *Cache caches nothing.
type Cache struct {
	files *lru.Cache[uint64, []byte]
}

// New returns a cache holding at most size files.
func New(size int) (*Cache, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid cache size %d", size)
	}

	files, err := lru.New[uint64, []byte](size)
	if err != nil {
		return nil, errors.Wrap(err, "lru.New")
	}

	log.Debugf("created content cache for %d files", size)
	return &Cache{files: files}, nil
}
