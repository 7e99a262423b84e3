package fs

import "io"

// File is a file on the local filesystem opened for writing.
type File interface {
	io.Writer
	io.Closer
}
