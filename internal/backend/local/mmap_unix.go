//go:build unix

package local

import (
	"os"

	"github.com/skyline93/pk2/internal/backend"
	"github.com/skyline93/pk2/internal/errors"
	"golang.org/x/sys/unix"
)

// openMmap maps the file at path read-only.
func openMmap(path string) (backend.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() {
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	size := fi.Size()
	if size == 0 {
		return backend.NewByteSource(nil), nil
	}
	if int64(int(size)) != size {
		return nil, errors.Errorf("%v is too large to be mapped", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrap(err, "mmap")
	}

	return backend.NewMappedSource(data, func() error {
		return unix.Munmap(data)
	}), nil
}
