package index

import "strings"

// Path is a relative path, split into its components.
type Path []string

// SplitPath splits p at slashes and backslashes. Empty components are
// dropped, "." and ".." are kept and resolved through the directory entries
// of the same name.
func SplitPath(p string) Path {
	fields := strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(fields) == 0 {
		return nil
	}
	return Path(fields)
}

func (p Path) String() string {
	return strings.Join(p, "/")
}
