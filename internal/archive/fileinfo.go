package archive

import (
	"io/fs"
	"time"

	"github.com/skyline93/pk2/internal/index"
	"github.com/skyline93/pk2/internal/pack"
)

// FileInfo describes a file or directory in an archive. It implements
// fs.FileInfo.
type FileInfo struct {
	entry pack.Entry
}

var _ fs.FileInfo = &FileInfo{}

func newFileInfo(e *pack.Entry) *FileInfo {
	return &FileInfo{entry: *e}
}

// rootInfo describes the root directory, which has no entry of its own.
func rootInfo() *FileInfo {
	return &FileInfo{entry: pack.Entry{
		Type:     pack.DirectoryEntry,
		Name:     "/",
		Position: uint64(index.Root),
	}}
}

// Name returns the base name of the file.
func (fi *FileInfo) Name() string { return fi.entry.Name }

// Size returns the length of a file's content, directories have size 0.
func (fi *FileInfo) Size() int64 {
	if fi.entry.IsDir() {
		return 0
	}
	return int64(fi.entry.Size)
}

func (fi *FileInfo) Mode() fs.FileMode {
	if fi.entry.IsDir() {
		return fs.ModeDir | 0755
	}
	return 0644
}

func (fi *FileInfo) ModTime() time.Time { return fi.entry.ModifyTime }

// CreateTime returns the creation time recorded in the archive.
func (fi *FileInfo) CreateTime() time.Time { return fi.entry.CreateTime }

// AccessTime returns the access time recorded in the archive.
func (fi *FileInfo) AccessTime() time.Time { return fi.entry.AccessTime }

func (fi *FileInfo) IsDir() bool { return fi.entry.IsDir() }

// Position returns the offset of a file's content or, for directories, of
// the first block of its chain.
func (fi *FileInfo) Position() uint64 { return fi.entry.Position }

// Sys returns the underlying *pack.Entry.
func (fi *FileInfo) Sys() any { return &fi.entry }
