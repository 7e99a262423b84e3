package archive

import (
	"io/fs"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/index"
)

// WalkFunc is called by Walk for every file and directory. p is the slash
// separated archive path. Returning fs.SkipDir for a directory skips its
// contents; any other error stops the walk.
type WalkFunc func(p string, fi *FileInfo, err error) error

// Walk calls fn for p and everything below it, depth-first in on-disk order.
// Directories that were already visited through another path are reported
// but not entered again.
func (a *Archive) Walk(p string, fn WalkFunc) error {
	start := CleanPath(p)
	fi, err := a.Stat(p)
	if err != nil {
		return fn(start, nil, err)
	}

	w := &walker{arch: a, fn: fn, seen: make(map[index.ChainIndex]struct{})}
	err = w.walk(start, fi)
	if errors.Is(err, fs.SkipDir) {
		return nil
	}
	return err
}

// CleanPath returns the canonical form of the archive path p as used by Walk:
// slash separated, without leading or trailing slashes and with "." and ".."
// applied lexically. The root directory is "".
func CleanPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+index.SplitPath(p).String()), "/")
}

type walker struct {
	arch *Archive
	fn   WalkFunc
	seen map[index.ChainIndex]struct{}
}

func (w *walker) walk(p string, fi *FileInfo) error {
	err := w.fn(p, fi, nil)
	if err != nil || !fi.IsDir() {
		return err
	}

	ci := index.ChainIndex(fi.Position())
	if _, ok := w.seen[ci]; ok {
		log.Debugf("walk: %v already visited", p)
		return nil
	}
	w.seen[ci] = struct{}{}

	c, ok := w.arch.idx.Chain(ci)
	if !ok {
		return w.fn(p, fi, &index.PathError{Op: "walk", Path: p, Err: index.ErrNotFound})
	}

	for _, e := range c.Entries() {
		if e.IsLink() {
			continue
		}

		err := w.walk(path.Join(p, e.Name), newFileInfo(e))
		if errors.Is(err, fs.SkipDir) {
			if e.IsDir() {
				continue
			}
			// SkipDir on a file skips the remaining files of the directory
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
