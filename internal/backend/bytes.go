package backend

import "bytes"

// NewByteSource returns a Source reading from buf.
func NewByteSource(buf []byte) *ByteSource {
	return &ByteSource{
		Reader: bytes.NewReader(buf),
	}
}

// ByteSource implements a Source for a byte slice.
type ByteSource struct {
	*bytes.Reader

	release func() error
}

// Close releases the underlying memory if the source owns it.
func (b *ByteSource) Close() error {
	if b.release == nil {
		return nil
	}
	release := b.release
	b.release = nil
	return release()
}

// NewMappedSource returns a Source reading from buf that calls release on
// Close.
func NewMappedSource(buf []byte, release func() error) *ByteSource {
	b := NewByteSource(buf)
	b.release = release
	return b
}
