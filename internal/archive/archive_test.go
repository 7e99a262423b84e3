package archive_test

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/backend"
	"github.com/skyline93/pk2/internal/crypto"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/index"
	"github.com/skyline93/pk2/internal/pack"
	"github.com/skyline93/pk2/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modTime = time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

func testTree() []testutil.Node {
	c := testutil.File("c.txt", "content of c")
	c.ModTime = modTime

	return []testutil.Node{
		testutil.Dir("data",
			testutil.Dir("sub", c),
			testutil.File("a.txt", "content of a"),
			testutil.File("empty", ""),
		),
		testutil.File("readme.txt", "top level file"),
	}
}

func newArchive(t *testing.T, key []byte, opts archive.Options) *archive.Archive {
	t.Helper()

	data, _ := testutil.BuildArchive(t, key, testTree()...)
	arch, err := archive.New(backend.NewByteSource(data), opts)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, arch.Close()) })
	return arch
}

func TestNew(t *testing.T) {
	arch := newArchive(t, []byte(crypto.DefaultKey), archive.Options{})
	assert.True(t, arch.Header().Encrypted)
	assert.Equal(t, 3, arch.Index().Len())
}

func TestNewUnencrypted(t *testing.T) {
	arch := newArchive(t, nil, archive.Options{Key: []byte("ignored")})
	assert.False(t, arch.Header().Encrypted)

	buf, err := arch.ReadFile("data/sub/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "content of c", string(buf))
}

func TestNewCustomKey(t *testing.T) {
	key := []byte("my secret key")
	data, _ := testutil.BuildArchive(t, key, testTree()...)

	_, err := archive.New(backend.NewByteSource(data), archive.Options{})
	assert.ErrorIs(t, err, archive.ErrInvalidKey)

	_, err = archive.New(backend.NewByteSource(data), archive.Options{Key: []byte("wrong")})
	assert.ErrorIs(t, err, archive.ErrInvalidKey)

	arch, err := archive.New(backend.NewByteSource(data), archive.Options{Key: key})
	require.NoError(t, err)

	buf, err := arch.ReadFile("readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "top level file", string(buf))
}

func TestNewInvalidHeader(t *testing.T) {
	data, _ := testutil.BuildArchive(t, nil, testTree()...)
	data[0] = 'X'

	_, err := archive.New(backend.NewByteSource(data), archive.Options{})
	assert.ErrorIs(t, err, pack.ErrInvalidHeader)

	_, err = archive.New(backend.NewByteSource(nil), archive.Options{})
	assert.Error(t, err)
}

func TestNewCorruptIndex(t *testing.T) {
	data, layout := testutil.BuildArchive(t, nil, testTree()...)
	data[layout.Chains["data"]+pack.EntrySize] = 0x17

	_, err := archive.New(backend.NewByteSource(data), archive.Options{})
	assert.ErrorIs(t, err, pack.ErrInvalidBlock)

	var lerr *index.LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "decode", lerr.Op)
}

func TestOpenFile(t *testing.T) {
	data, _ := testutil.BuildArchive(t, []byte(crypto.DefaultKey), testTree()...)
	filename := filepath.Join(t.TempDir(), "test.pk2")
	require.NoError(t, os.WriteFile(filename, data, 0600))

	for _, mmap := range []bool{false, true} {
		arch, err := archive.Open(filename, archive.Options{Mmap: mmap})
		require.NoError(t, err, "mmap %v", mmap)

		buf, err := arch.ReadFile("data/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "content of a", string(buf))

		require.NoError(t, arch.Close())
	}

	_, err := archive.Open(filepath.Join(t.TempDir(), "missing.pk2"), archive.Options{})
	assert.True(t, errors.Is(err, os.ErrNotExist), "unexpected error %v", err)

	_, err = archive.Open("", archive.Options{})
	assert.Error(t, err)
}

func TestStat(t *testing.T) {
	arch := newArchive(t, []byte(crypto.DefaultKey), archive.Options{})

	for _, p := range []string{"", "/", "."} {
		fi, err := arch.Stat(p)
		require.NoError(t, err, "path %q", p)
		assert.True(t, fi.IsDir())
		assert.Equal(t, uint64(index.Root), fi.Position())
	}

	fi, err := arch.Stat(`data\sub\c.txt`)
	require.NoError(t, err)
	assert.Equal(t, "c.txt", fi.Name())
	assert.False(t, fi.IsDir())
	assert.Equal(t, int64(len("content of c")), fi.Size())
	assert.Equal(t, fs.FileMode(0644), fi.Mode())
	assert.True(t, modTime.Equal(fi.ModTime()), "mtime %v", fi.ModTime())
	assert.True(t, modTime.Equal(fi.CreateTime()))
	assert.True(t, modTime.Equal(fi.AccessTime()))

	e, ok := fi.Sys().(*pack.Entry)
	require.True(t, ok)
	assert.Equal(t, pack.FileEntry, e.Type)

	fi, err = arch.Stat("/data/sub")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	assert.True(t, fi.Mode().IsDir())
	assert.Equal(t, int64(0), fi.Size())

	_, err = arch.Stat("data/missing")
	assert.ErrorIs(t, err, index.ErrNotFound)

	_, err = arch.Stat("readme.txt/x")
	assert.ErrorIs(t, err, index.ErrNotADirectory)
}

func TestReadDir(t *testing.T) {
	arch := newArchive(t, []byte(crypto.DefaultKey), archive.Options{})

	names := func(list []*archive.FileInfo) []string {
		var res []string
		for _, fi := range list {
			res = append(res, fi.Name())
		}
		return res
	}

	list, err := arch.ReadDir("")
	require.NoError(t, err)
	assert.Equal(t, []string{"data", "readme.txt"}, names(list))

	list, err = arch.ReadDir("data")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "a.txt", "empty"}, names(list))

	list, err = arch.ReadDir("data/sub/..")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "a.txt", "empty"}, names(list))

	_, err = arch.ReadDir("readme.txt")
	assert.ErrorIs(t, err, index.ErrNotADirectory)

	_, err = arch.ReadDir("nope")
	assert.ErrorIs(t, err, index.ErrNotFound)
}

func TestOpen(t *testing.T) {
	arch := newArchive(t, []byte(crypto.DefaultKey), archive.Options{})

	f, err := arch.Open("data/sub/c.txt")
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	buf, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "content of c", string(buf))

	_, err = f.Seek(8, io.SeekStart)
	require.NoError(t, err)
	buf, err = io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "of c", string(buf))

	part := make([]byte, 7)
	_, err = f.ReadAt(part, 0)
	require.NoError(t, err)
	assert.Equal(t, "content", string(part))

	fi, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "c.txt", fi.Name())

	_, err = arch.Open("data")
	assert.ErrorIs(t, err, archive.ErrIsDirectory)

	_, err = arch.Open("")
	assert.ErrorIs(t, err, archive.ErrIsDirectory)

	_, err = arch.Open("data/nope.txt")
	assert.ErrorIs(t, err, index.ErrNotFound)
}

func TestReadFile(t *testing.T) {
	arch := newArchive(t, []byte(crypto.DefaultKey), archive.Options{CacheSize: 4})

	for i := 0; i < 2; i++ {
		buf, err := arch.ReadFile("data/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "content of a", string(buf))

		// the returned buffer belongs to the caller
		buf[0] = 'X'
	}

	buf, err := arch.ReadFile("data/empty")
	require.NoError(t, err)
	assert.Empty(t, buf)

	_, err = arch.ReadFile("data")
	assert.ErrorIs(t, err, archive.ErrIsDirectory)
}

func TestReadFileTruncated(t *testing.T) {
	data, layout := testutil.BuildArchive(t, nil, testTree()...)
	data = data[:layout.Files["readme.txt"]+3]

	arch, err := archive.New(backend.NewByteSource(data), archive.Options{})
	require.NoError(t, err)

	_, err = arch.ReadFile("readme.txt")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMissingDirs(t *testing.T) {
	arch := newArchive(t, []byte(crypto.DefaultKey), archive.Options{})

	tests := []struct {
		path     string
		existing string
		missing  []string
	}{
		{"", "", nil},
		{"data/sub", "data/sub", nil},
		{"data/sub/new/deeper", "data/sub", []string{"new", "deeper"}},
		{"new", "", []string{"new"}},
		{"data/sub/../x", "data/sub/..", []string{"x"}},
	}
	for _, tt := range tests {
		existing, missing, err := arch.MissingDirs(tt.path)
		require.NoError(t, err, "path %q", tt.path)
		assert.Equal(t, tt.existing, existing, "path %q", tt.path)
		if len(tt.missing) == 0 {
			assert.Empty(t, missing, "path %q", tt.path)
		} else {
			assert.Equal(t, tt.missing, missing, "path %q", tt.path)
		}
	}

	_, _, err := arch.MissingDirs("../outside")
	assert.ErrorIs(t, err, index.ErrBoundaryDenied)

	_, _, err = arch.MissingDirs("data/a.txt/x")
	assert.ErrorIs(t, err, index.ErrNotADirectory)
}
