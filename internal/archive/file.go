package archive

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/backend"
	"github.com/skyline93/pk2/internal/index"
)

// File is an open file of an archive. It reads the file's content directly
// from the archive source.
type File struct {
	*io.SectionReader
	info *FileInfo
}

// Stat returns the FileInfo describing f.
func (f *File) Stat() (*FileInfo, error) {
	return f.info, nil
}

// Close is a no-op, the content is owned by the archive.
func (f *File) Close() error {
	return nil
}

// Open opens the file p for reading.
func (a *Archive) Open(p string) (*File, error) {
	fi, err := a.Stat(p)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, &index.PathError{Op: "open", Path: p, Err: ErrIsDirectory}
	}
	return a.OpenInfo(fi), nil
}

// OpenInfo opens the file described by fi, as returned by Stat, ReadDir or
// Walk. fi must not describe a directory.
func (a *Archive) OpenInfo(fi *FileInfo) *File {
	return &File{
		SectionReader: io.NewSectionReader(a.src, int64(fi.Position()), fi.Size()),
		info:          fi,
	}
}

// ReadFile returns the content of the file p.
func (a *Archive) ReadFile(p string) ([]byte, error) {
	fi, err := a.Stat(p)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, &index.PathError{Op: "read", Path: p, Err: ErrIsDirectory}
	}

	if buf, ok := a.cache.Get(fi.Position()); ok {
		return buf, nil
	}

	log.Debugf("read %v: %d bytes at %#x", p, fi.Size(), fi.Position())

	buf := make([]byte, fi.Size())
	if _, err := backend.ReadAt(a.src, int64(fi.Position()), buf); err != nil {
		return nil, err
	}

	a.cache.Add(fi.Position(), buf)
	return buf, nil
}
