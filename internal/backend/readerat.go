package backend

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/errors"
)

// ReadAt fills p from rd at the given position. Like io.ReadFull, a short
// read returns io.ErrUnexpectedEOF, and io.EOF only if no bytes were read.
func ReadAt(rd io.ReaderAt, offset int64, p []byte) (n int, err error) {
	log.Debugf("ReadAt at %v, len %v", offset, len(p))

	n, err = rd.ReadAt(p, offset)
	switch {
	case n == len(p) && errors.Is(err, io.EOF):
		err = nil
	case n > 0 && n < len(p) && (err == nil || errors.Is(err, io.EOF)):
		err = io.ErrUnexpectedEOF
	case n == 0 && len(p) > 0 && err == nil:
		err = io.EOF
	}
	if err != nil {
		return n, errors.Wrapf(err, "ReadAt(%d, %d)", offset, len(p))
	}

	return n, nil
}
