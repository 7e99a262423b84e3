package pack

import (
	"bytes"
	"encoding/binary"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

// EntryType specifies what an entry in a directory block describes.
type EntryType uint8

// These are the entry types that can be stored in a block.
const (
	EmptyEntry EntryType = iota
	DirectoryEntry
	FileEntry
)

func (t EntryType) String() string {
	switch t {
	case EmptyEntry:
		return "empty"
	case DirectoryEntry:
		return "dir"
	case FileEntry:
		return "file"
	}
	return "invalid"
}

const (
	// EntrySize is the encoded size of one entry.
	EntrySize = 128

	// NameSize is the size of the NUL terminated name field of an entry.
	NameSize = 81

	// Names of the self and parent references every directory contains.
	CurrentDir = "."
	ParentDir  = ".."
)

// field offsets inside an encoded entry
const (
	offType       = 0
	offName       = 1
	offAccessTime = offName + NameSize
	offCreateTime = offAccessTime + 8
	offModifyTime = offCreateTime + 8
	offPosition   = offModifyTime + 8
	offSize       = offPosition + 8
	offNextChain  = offSize + 4
)

// Entry is a file, directory or unused slot in a directory block.
type Entry struct {
	Type       EntryType
	Name       string
	AccessTime time.Time
	CreateTime time.Time
	ModifyTime time.Time

	// Position is the offset of the first block of the children chain for
	// directories and the offset of the content for files.
	Position uint64
	Size     uint32

	// NextChain is only meaningful in the last entry of a block, where a
	// non-zero value is the offset of the next block of the same chain.
	NextChain uint64
}

// IsDir reports whether the entry describes a directory.
func (e *Entry) IsDir() bool { return e.Type == DirectoryEntry }

// IsFile reports whether the entry describes a file.
func (e *Entry) IsFile() bool { return e.Type == FileEntry }

// IsEmpty reports whether the entry is an unused slot.
func (e *Entry) IsEmpty() bool { return e.Type == EmptyEntry }

// IsLink reports whether the entry is one of the "." and ".." references a
// directory holds to itself and its parent.
func (e *Entry) IsLink() bool {
	return e.IsDir() && (e.Name == CurrentDir || e.Name == ParentDir)
}

// Children returns the offset of the chain holding the entries of a
// directory.
func (e *Entry) Children() uint64 {
	return e.Position
}

func decodeEntry(buf []byte) (Entry, bool) {
	le := binary.LittleEndian
	e := Entry{
		Type:      EntryType(buf[offType]),
		NextChain: le.Uint64(buf[offNextChain:]),
	}

	switch e.Type {
	case EmptyEntry:
		return e, true
	case DirectoryEntry, FileEntry:
	default:
		return e, false
	}

	e.Name = DecodeName(buf[offName : offName+NameSize])
	e.AccessTime = FiletimeToTime(le.Uint64(buf[offAccessTime:]))
	e.CreateTime = FiletimeToTime(le.Uint64(buf[offCreateTime:]))
	e.ModifyTime = FiletimeToTime(le.Uint64(buf[offModifyTime:]))
	e.Position = le.Uint64(buf[offPosition:])
	e.Size = le.Uint32(buf[offSize:])
	return e, true
}

// DecodeName returns the NUL terminated name stored in buf. Names are stored
// in EUC-KR; plain ASCII is returned as is, and bytes that do not decode are
// kept unchanged.
func DecodeName(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}

	if isASCII(buf) {
		return string(buf)
	}

	name, err := korean.EUCKR.NewDecoder().Bytes(buf)
	if err != nil || bytes.ContainsRune(name, utf8.RuneError) {
		return string(buf)
	}
	return string(name)
}

func isASCII(buf []byte) bool {
	for _, b := range buf {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// windows FILETIME counts 100ns intervals since 1601-01-01
const (
	filetimeTicksPerSecond = 10 * 1000 * 1000
	filetimeUnixOffset     = 11644473600 // seconds between 1601 and 1970
)

// FiletimeToTime converts a FILETIME value to a time. Zero maps to the zero
// time.
func FiletimeToTime(ft uint64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	sec := int64(ft/filetimeTicksPerSecond) - filetimeUnixOffset
	nsec := int64(ft%filetimeTicksPerSecond) * 100
	return time.Unix(sec, nsec).UTC()
}

// TimeToFiletime converts t to a FILETIME value. The zero time maps to zero.
func TimeToFiletime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	sec := t.Unix() + filetimeUnixOffset
	if sec < 0 {
		return 0
	}
	return uint64(sec)*filetimeTicksPerSecond + uint64(t.Nanosecond()/100)
}
