package crypto

// PaddedLength returns the length of a buffer holding size plaintext bytes,
// rounded up to the cipher block size.
func PaddedLength(size int) int {
	if rem := size % BlockSize; rem != 0 {
		return size + BlockSize - rem
	}
	return size
}

// NewBlockBuffer returns a zeroed buffer that is large enough to hold size
// bytes and can be encrypted in place.
func NewBlockBuffer(size int) []byte {
	return make([]byte, PaddedLength(size))
}
