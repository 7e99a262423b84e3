// Package local opens archives stored on the local filesystem.
package local

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/backend"
	"github.com/skyline93/pk2/internal/errors"
)

// Open opens the archive described by cfg.
func Open(cfg Config) (backend.Source, error) {
	log.Debugf("open %v (mmap %v)", cfg.Path, cfg.Mmap)

	if cfg.Mmap {
		return openMmap(cfg.Path)
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return f, nil
}
