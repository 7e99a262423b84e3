// Package fs wraps the local filesystem operations used when files are
// extracted from an archive.
package fs

import (
	"os"
	"time"
)

// MkdirAll creates a directory named path, along with any necessary parents,
// and returns nil, or else returns an error. If path is already a directory,
// MkdirAll does nothing and returns nil.
func MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(fixpath(path), perm)
}

// OpenFile is the generalized open call. It opens the named file with
// specified flag (O_RDONLY etc.) and perm (0666 etc.) if applicable.
func OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(fixpath(name), flag, perm)
}

// Create creates or truncates the named file for writing.
func Create(name string, perm os.FileMode) (File, error) {
	return OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
}

// RemoveIfExists removes a file, returning no error if it does not exist.
func RemoveIfExists(filename string) error {
	err := os.Remove(fixpath(filename))
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	return err
}

// Chtimes changes the access and modification times of the named file. Zero
// times leave the corresponding time unchanged.
func Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(fixpath(name), atime, mtime)
}
