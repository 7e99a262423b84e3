package pack

import (
	"github.com/skyline93/pk2/internal/errors"
)

const (
	// EntriesPerBlock is the number of entries in a block. The last one also
	// carries the continuation pointer of the chain.
	EntriesPerBlock = 20

	// BlockSize is the size of a directory block.
	BlockSize = EntrySize * EntriesPerBlock
)

// ErrInvalidBlock is returned when a decrypted buffer is not a valid block.
var ErrInvalidBlock = errors.New("invalid block")

// Block is one fixed-size unit of a directory chain.
type Block struct {
	// Offset is the position of the block in the archive.
	Offset  uint64
	Entries [EntriesPerBlock]Entry
}

// NextChain returns the offset of the next block of the chain, if there is
// one.
func (b *Block) NextChain() (uint64, bool) {
	next := b.Entries[EntriesPerBlock-1].NextChain
	return next, next != 0
}

// DecodeBlock parses a decrypted block read at offset.
func DecodeBlock(buf []byte, offset uint64) (*Block, error) {
	if len(buf) != BlockSize {
		return nil, errors.Wrapf(ErrInvalidBlock, "block at %#x has %d bytes, want %d", offset, len(buf), BlockSize)
	}

	b := &Block{Offset: offset}
	for i := range b.Entries {
		raw := buf[i*EntrySize : (i+1)*EntrySize]
		e, ok := decodeEntry(raw)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidBlock, "block at %#x, entry %d: unknown entry type %d", offset, i, raw[offType])
		}
		b.Entries[i] = e
	}

	return b, nil
}
