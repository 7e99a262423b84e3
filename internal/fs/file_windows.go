package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// fixpath returns an absolute path in extended-length form so that archive
// paths deeper than MAX_PATH can be extracted.
func fixpath(name string) string {
	abspath, err := filepath.Abs(name)
	if err != nil || strings.HasPrefix(abspath, `\\?\`) {
		return name
	}
	if strings.HasPrefix(abspath, `\\`) {
		return `\\?\UNC\` + abspath[2:]
	}
	return `\\?\` + abspath
}

// Chmod changes the mode of the named file to mode.
func Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fixpath(name), mode)
}
