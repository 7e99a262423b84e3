package fs

import (
	"syscall"
	"time"

	"github.com/pkg/xattr"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/errors"
)

// Extended attributes recording the archive times that cannot be stored in
// the file's own metadata.
const (
	XattrCreateTime = "user.pk2.ctime"
	XattrAccessTime = "user.pk2.atime"
)

// SetTimeXattr stores t in the extended attribute name of path, formatted as
// RFC 3339. Filesystems without extended attribute support are silently
// skipped. The zero time is not stored.
func SetTimeXattr(path, name string, t time.Time) error {
	if t.IsZero() {
		return nil
	}

	value := []byte(t.UTC().Format(time.RFC3339Nano))
	log.Debugf("setxattr %v %v=%s", path, name, value)
	return handleXattrErr(xattr.LSet(fixpath(path), name, value))
}

func handleXattrErr(err error) error {
	switch e := err.(type) {
	case nil:
		return nil

	case *xattr.Error:
		// On Linux, xattr calls on files in an SMB/CIFS mount can return
		// ENOATTR instead of ENOTSUP.
		switch e.Err {
		case syscall.ENOTSUP, xattr.ENOATTR:
			return nil
		}
		return errors.WithStack(e)

	default:
		return errors.WithStack(e)
	}
}
