package local

import (
	"strings"

	"github.com/skyline93/pk2/internal/errors"
)

// Config holds all information needed to open a local archive.
type Config struct {
	Path string

	// Mmap maps the archive into memory instead of reading it through the
	// file descriptor.
	Mmap bool
}

// NewConfig returns a new config with default options applied.
func NewConfig() Config {
	return Config{}
}

// ParseConfig parses a local archive location. Both plain paths and paths
// prefixed with "local:" are accepted.
func ParseConfig(s string) (*Config, error) {
	s = strings.TrimPrefix(s, "local:")
	if s == "" {
		return nil, errors.New("empty archive path")
	}

	cfg := NewConfig()
	cfg.Path = s
	return &cfg, nil
}
