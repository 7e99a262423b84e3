// Package restorer recreates files stored in an archive on the local
// filesystem or streams them as a tar file.
package restorer

import (
	"context"
	iofs "io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/fs"
	"golang.org/x/sync/errgroup"
)

// SelectFunc returns true for all items that should be included (files and
// dirs). If false is returned, files are ignored and dirs are not even walked.
type SelectFunc func(item string, fi *archive.FileInfo) bool

// ErrorFunc is called when an error during restoring occurs. When nil is
// returned, the restorer continues, otherwise it aborts and passes the error
// up the call stack.
type ErrorFunc func(item string, err error) error

// Options configure a Restorer.
type Options struct {
	// Workers is the number of files written concurrently. Zero means
	// runtime.GOMAXPROCS.
	Workers uint

	Select SelectFunc
	Error  ErrorFunc
}

// Stats counts what the restorer has written.
type Stats struct {
	Files uint64
	Dirs  uint64
	Bytes uint64
}

// Restorer extracts files from an archive.
type Restorer struct {
	arch *archive.Archive
	opts Options

	files atomic.Uint64
	dirs  atomic.Uint64
	bytes atomic.Uint64
}

// New returns a restorer reading from arch.
func New(arch *archive.Archive, opts Options) *Restorer {
	if opts.Workers == 0 {
		opts.Workers = uint(runtime.GOMAXPROCS(0))
	}
	if opts.Select == nil {
		opts.Select = func(string, *archive.FileInfo) bool { return true }
	}
	if opts.Error == nil {
		opts.Error = func(_ string, err error) error { return err }
	}

	return &Restorer{arch: arch, opts: opts}
}

// Stats returns the number of files, directories and bytes written so far.
func (r *Restorer) Stats() Stats {
	return Stats{
		Files: r.files.Load(),
		Dirs:  r.dirs.Load(),
		Bytes: r.bytes.Load(),
	}
}

// ErrInvalidName is returned for entries whose name cannot be used as a file
// name.
var ErrInvalidName = errors.New("invalid file name")

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// relativePath returns the path of item relative to the walked base. A file
// used as base is restored under its own name.
func relativePath(base string, baseInfo *archive.FileInfo, item string) string {
	if !baseInfo.IsDir() {
		return baseInfo.Name()
	}
	return strings.TrimPrefix(strings.TrimPrefix(item, base), "/")
}

// Extract recreates the file or directory archivePath below the local
// directory dest. Directories are created as they are walked, file contents
// are written by a pool of workers.
func (r *Restorer) Extract(ctx context.Context, archivePath, dest string) error {
	base := archive.CleanPath(archivePath)
	baseInfo, err := r.arch.Stat(archivePath)
	if err != nil {
		return err
	}

	log.Infof("extracting %q to %v", base, dest)

	if err := fs.MkdirAll(dest, 0755); err != nil {
		return errors.WithStack(err)
	}

	wg, wctx := errgroup.WithContext(ctx)
	saver := NewFileSaver(wctx, wg, r, r.opts.Workers)

	var dirs []dirMetadata
	walkErr := r.arch.Walk(base, func(item string, fi *archive.FileInfo, err error) error {
		if err != nil {
			return r.opts.Error(item, err)
		}
		if wctx.Err() != nil {
			return wctx.Err()
		}

		if !r.opts.Select(item, fi) {
			log.Debugf("%v excluded", item)
			if fi.IsDir() {
				return iofs.SkipDir
			}
			return nil
		}

		rel := relativePath(base, baseInfo, item)
		if rel != "" {
			if err := checkName(fi.Name()); err != nil {
				return r.opts.Error(item, err)
			}
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))

		if !fi.IsDir() {
			saver.Save(wctx, item, target, fi)
			return nil
		}

		if err := fs.MkdirAll(target, 0755); err != nil {
			return r.opts.Error(item, errors.WithStack(err))
		}
		r.dirs.Add(1)
		dirs = append(dirs, dirMetadata{target: target, fi: fi})
		return nil
	})

	saver.TriggerShutdown()
	if err := wg.Wait(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}

	// children first, writing files changes the times of their directory and
	// a read-only directory could not be written to
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := restoreMetadata(dirs[i].target, dirs[i].fi); err != nil {
			if err = r.opts.Error(dirs[i].target, err); err != nil {
				return err
			}
		}
	}

	log.Infof("extracted %+v", r.Stats())
	return nil
}

type dirMetadata struct {
	target string
	fi     *archive.FileInfo
}

// restoreMetadata applies the permissions and times recorded in the archive
// to target.
func restoreMetadata(target string, fi *archive.FileInfo) error {
	if err := fs.Chmod(target, fi.Mode().Perm()); err != nil {
		return errors.WithStack(err)
	}

	if mtime := fi.ModTime(); !mtime.IsZero() {
		atime := fi.AccessTime()
		if atime.IsZero() {
			atime = mtime
		}
		if err := fs.Chtimes(target, atime, mtime); err != nil {
			return errors.WithStack(err)
		}
	}

	if err := fs.SetTimeXattr(target, fs.XattrCreateTime, fi.CreateTime()); err != nil {
		return err
	}
	return fs.SetTimeXattr(target, fs.XattrAccessTime, fi.AccessTime())
}
