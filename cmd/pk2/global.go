package main

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/index"
	"github.com/skyline93/pk2/internal/pack"
	"github.com/spf13/viper"
)

// GlobalOptions hold all global options for pk2.
type GlobalOptions struct {
	Key       string
	Mmap      bool
	CacheSize int
	Verbose   bool

	v *viper.Viper
}

var globalOptions = GlobalOptions{
	v: viper.New(),
}

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVarP(&globalOptions.Key, "key", "k", "", "archive `key` (default: $PK2_KEY or the default key)")
	f.BoolVar(&globalOptions.Mmap, "mmap", false, "map the archive into memory (default: $PK2_MMAP)")
	f.IntVar(&globalOptions.CacheSize, "cache-size", 64, "keep the content of `n` files in memory (default: $PK2_CACHE_SIZE)")
	f.BoolVarP(&globalOptions.Verbose, "verbose", "v", false, "be verbose")

	v := globalOptions.v
	v.SetEnvPrefix("pk2")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(f); err != nil {
		panic(err)
	}
}

// load merges flags and environment variables, flags take precedence.
func (opts *GlobalOptions) load() error {
	opts.Key = opts.v.GetString("key")
	opts.Mmap = opts.v.GetBool("mmap")
	opts.CacheSize = opts.v.GetInt("cache-size")
	opts.Verbose = opts.v.GetBool("verbose")

	if opts.CacheSize < 0 {
		return errors.Fatalf("invalid cache size %d", opts.CacheSize)
	}

	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	return nil
}

// openArchive opens the archive at path with the global options applied.
func openArchive(path string) (*archive.Archive, error) {
	opts := archive.Options{
		Mmap:      globalOptions.Mmap,
		CacheSize: globalOptions.CacheSize,
	}
	if globalOptions.Key != "" {
		opts.Key = []byte(globalOptions.Key)
	}

	arch, err := archive.Open(path, opts)
	switch {
	case err == nil:
		return arch, nil
	case errors.Is(err, archive.ErrInvalidKey):
		return nil, errors.Fatalf("%v: wrong key, use --key or $PK2_KEY", path)
	case errors.Is(err, pack.ErrInvalidHeader):
		return nil, errors.Fatalf("%v is not a PK2 archive: %v", path, err)
	default:
		return nil, err
	}
}

// withArchive opens the archive at path, runs fn and closes the archive.
func withArchive(path string, fn func(arch *archive.Archive) error) error {
	arch, err := openArchive(path)
	if err != nil {
		return err
	}

	err = fn(arch)
	return errors.CombineErrors(err, arch.Close())
}

// pathError turns lookup failures into messages for the user.
func pathError(err error) error {
	var perr *index.PathError
	if !errors.As(err, &perr) {
		return err
	}
	return errors.Fatalf("%v: %v", perr.Path, perr.Err)
}

// archivePath returns args[i] or the root directory.
func archivePath(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}
