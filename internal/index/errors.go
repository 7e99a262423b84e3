package index

import "github.com/skyline93/pk2/internal/errors"

var (
	// ErrNotFound is returned when a path component does not exist.
	ErrNotFound = errors.New("no such file or directory")

	// ErrNotADirectory is returned when a path component that has to be a
	// directory names a file.
	ErrNotADirectory = errors.New("not a directory")

	// ErrBoundaryDenied is returned when a path walks above the directory it
	// is validated against.
	ErrBoundaryDenied = errors.New("path leaves the directory it is resolved in")
)

// PathError records the path component a lookup failed at.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// LoadError is returned when the index cannot be built. Op is "read" for
// failures of the underlying storage, "decrypt" when a block could not be
// decrypted and "decode" for malformed blocks.
type LoadError struct {
	Op     string
	Offset ChainIndex
	Err    error
}

func (e *LoadError) Error() string {
	return "load chain " + e.Offset.String() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
