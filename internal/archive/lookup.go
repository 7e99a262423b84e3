package archive

import (
	"strings"

	"github.com/skyline93/pk2/internal/index"
)

// Stat returns the FileInfo for the file or directory p. The root directory
// is "" or "/".
func (a *Archive) Stat(p string) (*FileInfo, error) {
	_, e, err := a.idx.ResolveEntry(index.Root, index.SplitPath(p))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return rootInfo(), nil
	}
	return newFileInfo(e), nil
}

// ReadDir returns the files and directories in the directory p in the order
// they are stored. The "." and ".." entries are not returned.
func (a *Archive) ReadDir(p string) ([]*FileInfo, error) {
	c, err := a.chain("readdir", p)
	if err != nil {
		return nil, err
	}

	var list []*FileInfo
	for _, e := range c.Entries() {
		if e.IsLink() {
			continue
		}
		list = append(list, newFileInfo(e))
	}
	return list, nil
}

func (a *Archive) chain(op, p string) (*index.Chain, error) {
	i, err := a.idx.ResolveChain(index.Root, index.SplitPath(p))
	if err != nil {
		return nil, err
	}

	c, ok := a.idx.Chain(i)
	if !ok {
		return nil, &index.PathError{Op: op, Path: p, Err: index.ErrNotFound}
	}
	return c, nil
}

// MissingDirs splits the directory path p into the part that exists in the
// archive and the components below it that do not. Paths leaving the root
// directory are rejected with index.ErrBoundaryDenied.
func (a *Archive) MissingDirs(p string) (existing string, missing []string, err error) {
	parts := index.SplitPath(p)

	_, rest, err := a.idx.ValidateDir(index.Root, parts)
	if err != nil {
		return "", nil, err
	}

	existing = strings.Join(parts[:len(parts)-len(rest)], "/")
	return existing, rest, nil
}
