package index

import (
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/pack"
)

func (idx *Index) chain(op string, i ChainIndex) (*Chain, error) {
	c, ok := idx.chains[i]
	if !ok {
		return nil, &PathError{Op: op, Path: i.String(), Err: ErrNotFound}
	}
	return c, nil
}

// ResolveChain follows the directories named by p, starting at start, and
// returns the chain of the last one. An empty path resolves to start.
func (idx *Index) ResolveChain(start ChainIndex, p Path) (ChainIndex, error) {
	cur := start
	for _, name := range p {
		c, err := idx.chain("resolve", cur)
		if err != nil {
			return 0, err
		}

		cur, err = c.child("resolve", name)
		if err != nil {
			return 0, err
		}
	}
	return cur, nil
}

// ResolveEntry returns the entry p refers to together with the chain of the
// directory holding it. For an empty path, which denotes start itself, no
// entry and no error is returned.
func (idx *Index) ResolveEntry(start ChainIndex, p Path) (*Chain, *pack.Entry, error) {
	if len(p) == 0 {
		return nil, nil, nil
	}

	dir, name := p[:len(p)-1], p[len(p)-1]
	i, err := idx.ResolveChain(start, dir)
	if err != nil {
		return nil, nil, err
	}

	parent, err := idx.chain("open", i)
	if err != nil {
		return nil, nil, err
	}

	e := parent.Find(name)
	if e == nil {
		return nil, nil, &PathError{Op: "open", Path: name, Err: ErrNotFound}
	}
	return parent, e, nil
}

// ValidateDir walks the directories named by p as far as they exist. It
// returns the last existing directory and the components that do not exist
// yet, starting with the first missing one. A missing ".." is an attempt to
// leave start and fails with ErrBoundaryDenied; a component naming a file
// fails with ErrNotADirectory.
func (idx *Index) ValidateDir(start ChainIndex, p Path) (ChainIndex, Path, error) {
	cur := start
	for i, name := range p {
		c, err := idx.chain("validate", cur)
		if err != nil {
			return 0, nil, err
		}

		next, err := c.child("validate", name)
		switch {
		case err == nil:
			cur = next
		case errors.Is(err, ErrNotFound):
			if name == pack.ParentDir {
				return 0, nil, &PathError{Op: "validate", Path: name, Err: ErrBoundaryDenied}
			}
			return cur, p[i:], nil
		default:
			return 0, nil, err
		}
	}
	return cur, nil, nil
}
