// Package testutil builds archive images for tests.
package testutil

import (
	"encoding/binary"
	"path"
	"testing"
	"time"

	"github.com/skyline93/pk2/internal/crypto"
	"github.com/skyline93/pk2/internal/pack"
	"golang.org/x/text/encoding/korean"
)

// Image is an archive under construction.
type Image struct {
	key  *crypto.Key
	data []byte
}

// NewImage returns an image holding only a header. With a nil key the
// archive is unencrypted, otherwise blocks are encrypted with key.
func NewImage(tb testing.TB, key []byte) *Image {
	tb.Helper()

	img := &Image{}
	h := pack.NewHeader(key != nil)
	if key != nil {
		k, err := crypto.NewKey(key)
		if err != nil {
			tb.Fatalf("NewKey: %v", err)
		}
		img.key = k
		sum := k.Checksum()
		copy(h.Verify[:], sum[:])
	}

	buf, err := h.MarshalBinary()
	if err != nil {
		tb.Fatalf("MarshalBinary: %v", err)
	}
	img.WriteAt(0, buf)
	return img
}

// WriteAt places p at offset, growing the image as needed.
func (img *Image) WriteAt(offset uint64, p []byte) {
	end := offset + uint64(len(p))
	if end > uint64(len(img.data)) {
		grown := make([]byte, end)
		copy(grown, img.data)
		img.data = grown
	}
	copy(img.data[offset:], p)
}

// WriteBlock encodes entries into a block, encrypts it and places it at
// offset. Missing entries are empty slots.
func (img *Image) WriteBlock(tb testing.TB, offset uint64, entries ...pack.Entry) {
	tb.Helper()
	img.WriteRawBlock(tb, offset, EncodeBlock(tb, entries...))
}

// WriteRawBlock encrypts raw and places it at offset.
func (img *Image) WriteRawBlock(tb testing.TB, offset uint64, raw []byte) {
	tb.Helper()

	buf := append([]byte(nil), raw...)
	if img.key != nil {
		if err := img.key.Encrypt(buf); err != nil {
			tb.Fatalf("Encrypt: %v", err)
		}
	}
	img.WriteAt(offset, buf)
}

// Bytes returns the archive image.
func (img *Image) Bytes() []byte {
	return img.data
}

// EncodeBlock encodes up to pack.EntriesPerBlock entries into a plaintext
// block.
func EncodeBlock(tb testing.TB, entries ...pack.Entry) []byte {
	tb.Helper()

	if len(entries) > pack.EntriesPerBlock {
		tb.Fatalf("%d entries do not fit into a block", len(entries))
	}

	buf := make([]byte, pack.BlockSize)
	for i, e := range entries {
		copy(buf[i*pack.EntrySize:], EncodeEntry(tb, e))
	}
	return buf
}

// EncodeEntry encodes a single entry.
func EncodeEntry(tb testing.TB, e pack.Entry) []byte {
	tb.Helper()

	buf := make([]byte, pack.EntrySize)
	buf[0] = byte(e.Type)

	name := EncodeName(tb, e.Name)
	if len(name) >= pack.NameSize {
		tb.Fatalf("name %q too long", e.Name)
	}
	copy(buf[1:], name)

	le := binary.LittleEndian
	le.PutUint64(buf[82:], pack.TimeToFiletime(e.AccessTime))
	le.PutUint64(buf[90:], pack.TimeToFiletime(e.CreateTime))
	le.PutUint64(buf[98:], pack.TimeToFiletime(e.ModifyTime))
	le.PutUint64(buf[106:], e.Position)
	le.PutUint32(buf[114:], e.Size)
	le.PutUint64(buf[118:], e.NextChain)
	return buf
}

// EncodeName converts name to EUC-KR.
func EncodeName(tb testing.TB, name string) []byte {
	tb.Helper()

	buf, err := korean.EUCKR.NewEncoder().Bytes([]byte(name))
	if err != nil {
		tb.Fatalf("encode name %q: %v", name, err)
	}
	return buf
}

// Node describes a file or directory of a test archive.
type Node struct {
	Name     string
	Dir      bool
	Content  []byte
	Children []Node
	ModTime  time.Time
}

// File returns a file node.
func File(name, content string) Node {
	return Node{Name: name, Content: []byte(content)}
}

// Dir returns a directory node.
func Dir(name string, children ...Node) Node {
	return Node{Name: name, Dir: true, Children: children}
}

// Layout records where BuildArchive placed things. Paths are slash
// separated, the root directory is "".
type Layout struct {
	Chains map[string]uint64
	Files  map[string]uint64
}

type dirItem struct {
	path     string
	children []Node
	parent   uint64
}

// BuildArchive returns an archive image containing the tree described by
// root. The root directory only holds a "." entry, every other directory
// holds "." and "..". Continuation blocks of long directories are placed
// after all file data, so chains are never contiguous.
func BuildArchive(tb testing.TB, key []byte, root ...Node) ([]byte, Layout) {
	tb.Helper()

	img := NewImage(tb, key)
	next := uint64(pack.RootBlockOffset)
	alloc := func(size uint64) uint64 {
		off := next
		next += size
		return off
	}

	layout := Layout{
		Chains: map[string]uint64{"": alloc(pack.BlockSize)},
		Files:  make(map[string]uint64),
	}

	var order []dirItem
	queue := []dirItem{{path: "", children: root}}
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		order = append(order, d)

		for _, c := range d.children {
			if !c.Dir {
				continue
			}
			p := path.Join(d.path, c.Name)
			layout.Chains[p] = alloc(pack.BlockSize)
			queue = append(queue, dirItem{path: p, children: c.Children, parent: layout.Chains[d.path]})
		}
	}

	for _, d := range order {
		for _, c := range d.children {
			if c.Dir {
				continue
			}
			p := path.Join(d.path, c.Name)
			layout.Files[p] = alloc(uint64(len(c.Content)))
			img.WriteAt(layout.Files[p], c.Content)
		}
	}

	for _, d := range order {
		self := layout.Chains[d.path]
		entries := []pack.Entry{{Type: pack.DirectoryEntry, Name: pack.CurrentDir, Position: self}}
		if d.path != "" {
			entries = append(entries, pack.Entry{Type: pack.DirectoryEntry, Name: pack.ParentDir, Position: d.parent})
		}

		for _, c := range d.children {
			p := path.Join(d.path, c.Name)
			e := pack.Entry{
				Name:       c.Name,
				ModifyTime: c.ModTime,
				CreateTime: c.ModTime,
				AccessTime: c.ModTime,
			}
			if c.Dir {
				e.Type = pack.DirectoryEntry
				e.Position = layout.Chains[p]
			} else {
				e.Type = pack.FileEntry
				e.Position = layout.Files[p]
				e.Size = uint32(len(c.Content))
			}
			entries = append(entries, e)
		}

		n := (len(entries) + pack.EntriesPerBlock - 1) / pack.EntriesPerBlock
		offsets := []uint64{self}
		for i := 1; i < n; i++ {
			offsets = append(offsets, alloc(pack.BlockSize))
		}

		for i, off := range offsets {
			end := (i + 1) * pack.EntriesPerBlock
			if end > len(entries) {
				end = len(entries)
			}

			var blk [pack.EntriesPerBlock]pack.Entry
			copy(blk[:], entries[i*pack.EntriesPerBlock:end])
			if i+1 < len(offsets) {
				blk[pack.EntriesPerBlock-1].NextChain = offsets[i+1]
			}
			img.WriteBlock(tb, off, blk[:]...)
		}
	}

	return img.Bytes(), layout
}
