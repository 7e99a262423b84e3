package index

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/pack"
)

// An archive stores every directory as a chain of fixed-size blocks. The
// index defined here holds all chains reachable from the root directory in
// memory, keyed by the offset of their first block.
//
// The index is built eagerly when an archive is opened: loading walks the
// directory graph with an explicit worklist, decrypting and decoding every
// block once. Directories reference themselves (".") and their parent
// (".."); these entries point at chains that are already known and are
// never followed while loading, so the walk terminates.
//
// Once Load returns, the index is never modified again. All lookups only
// read from it and may run concurrently without locking.

// ChainIndex identifies a chain by the offset of its first block.
type ChainIndex uint64

// Root is the chain of the root directory.
const Root ChainIndex = pack.RootBlockOffset

func (i ChainIndex) String() string {
	return fmt.Sprintf("%#x", uint64(i))
}

// Decrypter decrypts a block read from an archive in place.
type Decrypter interface {
	DecryptBlock(buf []byte) error
}

// Index holds the chains of all directories of an archive.
type Index struct {
	chains map[ChainIndex]*Chain
}

// Load reads all chains reachable from the root directory. dec may be nil
// for archives that are not encrypted. On error no index is returned.
func Load(dec Decrypter, rd io.ReadSeeker) (*Index, error) {
	log.Debugf("loading index")

	chains := make(map[ChainIndex]*Chain)
	pending := []ChainIndex{Root}
	buf := make([]byte, pack.BlockSize)

	for len(pending) > 0 {
		offset := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		// re-reading a known chain would yield the same result
		if _, ok := chains[offset]; ok {
			continue
		}

		chain, err := readChain(dec, rd, offset, buf)
		if err != nil {
			return nil, err
		}

		for _, e := range chain.Entries() {
			if e.IsDir() && !e.IsLink() {
				pending = append(pending, ChainIndex(e.Children()))
			}
		}

		chains[offset] = chain
	}

	log.Debugf("loaded %d chains", len(chains))
	return &Index{chains: chains}, nil
}

// readChain reads the chain starting at offset, following continuation
// pointers until the last block. buf is used as scratch space.
func readChain(dec Decrypter, rd io.ReadSeeker, offset ChainIndex, buf []byte) (*Chain, error) {
	log.Debugf("load chain %v", offset)

	chain := &Chain{Index: offset}
	seen := make(map[uint64]struct{})
	pos := uint64(offset)

	for {
		if _, ok := seen[pos]; ok {
			return nil, &LoadError{
				Op:     "decode",
				Offset: offset,
				Err:    errors.Wrapf(pack.ErrInvalidBlock, "block %#x continues into itself", pos),
			}
		}
		seen[pos] = struct{}{}

		if _, err := rd.Seek(int64(pos), io.SeekStart); err != nil {
			return nil, &LoadError{Op: "read", Offset: offset, Err: errors.Wrapf(err, "Seek(%#x)", pos)}
		}
		if _, err := io.ReadFull(rd, buf); err != nil {
			return nil, &LoadError{Op: "read", Offset: offset, Err: errors.Wrapf(err, "ReadFull(%#x)", pos)}
		}

		if dec != nil {
			if err := dec.DecryptBlock(buf); err != nil {
				return nil, &LoadError{Op: "decrypt", Offset: offset, Err: errors.Wrapf(err, "block %#x", pos)}
			}
		}

		blk, err := pack.DecodeBlock(buf, pos)
		if err != nil {
			return nil, &LoadError{Op: "decode", Offset: offset, Err: err}
		}
		chain.Blocks = append(chain.Blocks, blk)

		next, ok := blk.NextChain()
		if !ok {
			return chain, nil
		}
		pos = next
	}
}

// Chain returns the chain with the given index.
func (idx *Index) Chain(i ChainIndex) (*Chain, bool) {
	c, ok := idx.chains[i]
	return c, ok
}

// Len returns the number of chains in the index.
func (idx *Index) Len() int {
	return len(idx.chains)
}
