// Package backend provides the random access byte sources archives are read
// from.
package backend

import "io"

// Source is the storage an archive is read from. Seek and Read are used while
// the index is built; ReadAt serves file contents afterwards and must be safe
// for concurrent use.
type Source interface {
	io.ReadSeeker
	io.ReaderAt
	io.Closer
}
