package crypto

import (
	"bytes"

	"github.com/skyline93/pk2/internal/errors"
	"golang.org/x/crypto/blowfish"
)

// DefaultKey is the key archives are encrypted with unless the producer
// chose a custom one.
const DefaultKey = "169841"

const (
	// BlockSize is the cipher block size. Encrypted buffers must be a
	// multiple of it.
	BlockSize = blowfish.BlockSize

	maxKeySize = 56 // Blowfish accepts at most 448 bit keys

	// ChecksumSize is the number of verification bytes stored in the
	// archive header.
	ChecksumSize = 3
)

// salt is mixed into every user key before it is handed to Blowfish.
var salt = [...]byte{0x03, 0xF8, 0xE4, 0x44, 0x88, 0x99, 0x3F, 0x64, 0xFE, 0x35}

// checksumPlaintext is encrypted with the key to produce the header
// verification bytes.
var checksumPlaintext = []byte("Joymax Pak File")

var (
	// ErrUnaligned is returned when a buffer is not a multiple of BlockSize.
	ErrUnaligned = errors.New("buffer length is not a multiple of the cipher block size")

	// ErrInvalidKey is returned when a key is empty.
	ErrInvalidKey = errors.New("invalid key")
)

// Key decrypts and encrypts archive blocks. The cipher is the little-endian
// flavour of Blowfish: both 32 bit halves of a block are read and written in
// little-endian byte order.
type Key struct {
	c *blowfish.Cipher
}

// DeriveKey mixes the archive salt into key and returns the bytes that are
// used as the Blowfish key. Keys longer than 56 bytes are truncated.
func DeriveKey(key []byte) []byte {
	n := len(key)
	if n > maxKeySize {
		n = maxKeySize
	}

	var base [maxKeySize]byte
	copy(base[:], salt[:])

	derived := make([]byte, n)
	for i := 0; i < n; i++ {
		derived[i] = key[i] ^ base[i]
	}
	return derived
}

// NewKey returns a Key for the user supplied key material.
func NewKey(key []byte) (*Key, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}

	c, err := blowfish.NewCipher(DeriveKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "blowfish.NewCipher")
	}
	return &Key{c: c}, nil
}

// Decrypt decrypts buf in place.
func (k *Key) Decrypt(buf []byte) error {
	if len(buf)%BlockSize != 0 {
		return errors.Wrapf(ErrUnaligned, "decrypt %d bytes", len(buf))
	}

	for i := 0; i < len(buf); i += BlockSize {
		b := buf[i : i+BlockSize]
		swapHalves(b)
		k.c.Decrypt(b, b)
		swapHalves(b)
	}
	return nil
}

// DecryptBlock decrypts one archive block in place.
func (k *Key) DecryptBlock(buf []byte) error {
	return k.Decrypt(buf)
}

// Encrypt encrypts buf in place.
func (k *Key) Encrypt(buf []byte) error {
	if len(buf)%BlockSize != 0 {
		return errors.Wrapf(ErrUnaligned, "encrypt %d bytes", len(buf))
	}

	for i := 0; i < len(buf); i += BlockSize {
		b := buf[i : i+BlockSize]
		swapHalves(b)
		k.c.Encrypt(b, b)
		swapHalves(b)
	}
	return nil
}

// Checksum returns the verification bytes an archive encrypted with k
// stores in its header.
func (k *Key) Checksum() [ChecksumSize]byte {
	buf := NewBlockBuffer(len(checksumPlaintext))
	copy(buf, checksumPlaintext)

	// buf is aligned by construction
	_ = k.Encrypt(buf)

	var sum [ChecksumSize]byte
	copy(sum[:], buf)
	return sum
}

// Verify reports whether checksum was produced with k.
func (k *Key) Verify(checksum []byte) bool {
	if len(checksum) < ChecksumSize {
		return false
	}
	sum := k.Checksum()
	return bytes.Equal(sum[:], checksum[:ChecksumSize])
}

// swapHalves reverses the byte order of both 32 bit words of a cipher block.
func swapHalves(b []byte) {
	b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	b[4], b[5], b[6], b[7] = b[7], b[6], b[5], b[4]
}
