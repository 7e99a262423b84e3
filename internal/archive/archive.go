// Package archive gives read-only access to the files stored in an archive.
package archive

import (
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/backend"
	"github.com/skyline93/pk2/internal/backend/local"
	"github.com/skyline93/pk2/internal/cache"
	"github.com/skyline93/pk2/internal/crypto"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/index"
	"github.com/skyline93/pk2/internal/pack"
)

var (
	// ErrInvalidKey is returned when the key does not match the checksum
	// stored in the archive header.
	ErrInvalidKey = errors.New("wrong key for archive")

	// ErrIsDirectory is returned when a directory is opened as a file.
	ErrIsDirectory = errors.New("is a directory")
)

// Options configure how an archive is opened.
type Options struct {
	// Key is the key the archive is encrypted with. When empty,
	// crypto.DefaultKey is used.
	Key []byte

	// CacheSize is the number of files ReadFile keeps in memory. Zero
	// disables the cache.
	CacheSize int

	// Mmap maps archives opened with Open into memory.
	Mmap bool
}

// Archive is an opened archive. All methods are safe for concurrent use.
type Archive struct {
	src   backend.Source
	owned bool

	hdr   *pack.Header
	idx   *index.Index
	cache *cache.Cache
}

// Open opens the archive file at path. The archive owns the file and closes
// it in Close.
func Open(path string, opts Options) (*Archive, error) {
	cfg, err := local.ParseConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.Mmap = opts.Mmap

	src, err := local.Open(*cfg)
	if err != nil {
		return nil, err
	}

	arch, err := New(src, opts)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	arch.owned = true
	return arch, nil
}

// New reads the archive from src. src is not closed by the archive.
func New(src backend.Source, opts Options) (*Archive, error) {
	hdr, err := pack.ReadHeader(src)
	if err != nil {
		return nil, err
	}

	// dec must stay a nil interface for unencrypted archives
	var dec index.Decrypter
	if hdr.Encrypted {
		key, err := openKey(hdr, opts.Key)
		if err != nil {
			return nil, err
		}
		dec = key
	}

	idx, err := index.Load(dec, src)
	if err != nil {
		return nil, err
	}

	arch := &Archive{
		src: src,
		hdr: hdr,
		idx: idx,
	}

	if opts.CacheSize > 0 {
		arch.cache, err = cache.New(opts.CacheSize)
		if err != nil {
			return nil, err
		}
	}

	log.Debugf("archive opened: %d directories, encrypted %v", idx.Len(), hdr.Encrypted)
	return arch, nil
}

// openKey derives the key and checks it against the header.
func openKey(hdr *pack.Header, key []byte) (*crypto.Key, error) {
	if len(key) == 0 {
		key = []byte(crypto.DefaultKey)
	}

	k, err := crypto.NewKey(key)
	if err != nil {
		return nil, err
	}

	if !k.Verify(hdr.Verify[:]) {
		return nil, ErrInvalidKey
	}
	return k, nil
}

// Header returns the archive header.
func (a *Archive) Header() *pack.Header {
	return a.hdr
}

// Index returns the directory index of the archive.
func (a *Archive) Index() *index.Index {
	return a.idx
}

// Close releases the archive. The underlying source is only closed when the
// archive was opened with Open.
func (a *Archive) Close() error {
	log.Debugf("close archive, dropping %d cached files", a.cache.Len())
	a.cache.Clear()
	if !a.owned {
		return nil
	}
	return a.src.Close()
}
