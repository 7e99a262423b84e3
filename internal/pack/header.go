package pack

import (
	"bytes"
	"encoding/binary"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/errors"
)

const (
	// HeaderSize is the size of the archive header.
	HeaderSize = 256

	// RootBlockOffset is the offset of the first block of the root
	// directory.
	RootBlockOffset = HeaderSize

	// Signature starts every archive.
	Signature = "JoyMax File Manager!\n"

	// Version is the only supported format version.
	Version = 0x01000002

	signatureSize = 30
	verifySize    = 16
)

// header field offsets
const (
	offSignature = 0
	offVersion   = offSignature + signatureSize
	offEncrypted = offVersion + 4
	offVerify    = offEncrypted + 1
	offReserved  = offVerify + verifySize
)

// ErrInvalidHeader is returned when an archive does not start with a valid
// header.
var ErrInvalidHeader = errors.New("invalid archive header")

// Header is the archive header.
type Header struct {
	Signature [signatureSize]byte
	Version   uint32
	Encrypted bool

	// Verify holds the key checksum of encrypted archives.
	Verify [verifySize]byte
}

// NewHeader returns a valid header.
func NewHeader(encrypted bool) *Header {
	h := &Header{
		Version:   Version,
		Encrypted: encrypted,
	}
	copy(h.Signature[:], Signature)
	return h
}

// DecodeHeader parses and validates a header.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, errors.Wrapf(ErrInvalidHeader, "header too short: %d bytes", len(buf))
	}

	h := &Header{}
	copy(h.Signature[:], buf[offSignature:offVersion])
	h.Version = binary.LittleEndian.Uint32(buf[offVersion:])
	copy(h.Verify[:], buf[offVerify:offReserved])

	if !bytes.HasPrefix(h.Signature[:], []byte(Signature)) {
		return nil, errors.Wrap(ErrInvalidHeader, "signature mismatch")
	}
	if h.Version != Version {
		return nil, errors.Wrapf(ErrInvalidHeader, "unsupported version %#x", h.Version)
	}

	switch buf[offEncrypted] {
	case 0:
	case 1:
		h.Encrypted = true
	default:
		return nil, errors.Wrapf(ErrInvalidHeader, "invalid encryption flag %d", buf[offEncrypted])
	}

	return h, nil
}

// ReadHeader reads the header from the start of rd.
func ReadHeader(rd io.ReaderAt) (*Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := rd.ReadAt(buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == HeaderSize) {
		return nil, errors.Wrap(err, "ReadAt")
	}

	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	log.Debugf("read header: version %#x, encrypted %v", h.Version, h.Encrypted)
	return h, nil
}

// MarshalBinary encodes the header.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf[offSignature:], h.Signature[:])
	binary.LittleEndian.PutUint32(buf[offVersion:], h.Version)
	if h.Encrypted {
		buf[offEncrypted] = 1
	}
	copy(buf[offVerify:], h.Verify[:])
	return buf, nil
}
