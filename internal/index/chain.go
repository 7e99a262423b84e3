package index

import "github.com/skyline93/pk2/internal/pack"

// Chain is the complete entry list of one directory, in the order the blocks
// are linked in the archive.
type Chain struct {
	Index  ChainIndex
	Blocks []*pack.Block
}

// Entries returns all used entries of the chain. The returned entries are
// owned by the index and must not be modified.
func (c *Chain) Entries() []*pack.Entry {
	var list []*pack.Entry
	for _, blk := range c.Blocks {
		for i := range blk.Entries {
			if !blk.Entries[i].IsEmpty() {
				list = append(list, &blk.Entries[i])
			}
		}
	}
	return list
}

// Find returns the first entry with the given name, or nil if none could be
// found.
func (c *Chain) Find(name string) *pack.Entry {
	for _, blk := range c.Blocks {
		for i := range blk.Entries {
			e := &blk.Entries[i]
			if !e.IsEmpty() && e.Name == name {
				return e
			}
		}
	}
	return nil
}

// child returns the chain of the subdirectory name.
func (c *Chain) child(op, name string) (ChainIndex, error) {
	e := c.Find(name)
	if e == nil {
		return 0, &PathError{Op: op, Path: name, Err: ErrNotFound}
	}
	if !e.IsDir() {
		return 0, &PathError{Op: op, Path: name, Err: ErrNotADirectory}
	}
	return ChainIndex(e.Children()), nil
}
