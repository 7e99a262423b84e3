//go:build !unix

package local

import (
	"os"

	"github.com/skyline93/pk2/internal/backend"
	"github.com/skyline93/pk2/internal/errors"
)

// openMmap reads the whole file into memory on platforms without mmap.
func openMmap(path string) (backend.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return backend.NewByteSource(data), nil
}
