package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeArchive stores a test archive encrypted with key in a temporary
// directory and returns its file name.
func writeArchive(t *testing.T, key string) string {
	t.Helper()

	data, _ := testutil.BuildArchive(t, []byte(key),
		testutil.Dir("media",
			testutil.File("icon.ddj", "icon data"),
			testutil.Dir("sound", testutil.File("click.wav", "click")),
		),
		testutil.File("type.txt", "type file"),
	)

	filename := filepath.Join(t.TempDir(), "test.pk2")
	require.NoError(t, os.WriteFile(filename, data, 0600))
	return filename
}

func withGlobalOptions(t *testing.T, key string) {
	t.Helper()

	old := globalOptions
	t.Cleanup(func() { globalOptions = old })
	globalOptions.Key = key
	globalOptions.CacheSize = 4
}

func TestLoadOptionsFromEnv(t *testing.T) {
	withGlobalOptions(t, "")
	t.Setenv("PK2_KEY", "from env")
	t.Setenv("PK2_MMAP", "true")
	t.Setenv("PK2_CACHE_SIZE", "7")

	require.NoError(t, globalOptions.load())
	assert.Equal(t, "from env", globalOptions.Key)
	assert.True(t, globalOptions.Mmap)
	assert.Equal(t, 7, globalOptions.CacheSize)

	t.Setenv("PK2_CACHE_SIZE", "-1")
	err := globalOptions.load()
	assert.True(t, errors.IsFatal(err))
}

func TestLs(t *testing.T) {
	withGlobalOptions(t, "")
	filename := writeArchive(t, "169841")

	var buf bytes.Buffer
	require.NoError(t, runLs(&buf, LsOptions{}, filename, ""))
	assert.Equal(t, "media/\ntype.txt\n", buf.String())

	buf.Reset()
	require.NoError(t, runLs(&buf, LsOptions{}, filename, "media/icon.ddj"))
	assert.Equal(t, "icon.ddj\n", buf.String())

	buf.Reset()
	require.NoError(t, runLs(&buf, LsOptions{Long: true}, filename, "media"))
	out := buf.String()
	assert.Contains(t, out, "icon.ddj")
	assert.Contains(t, out, "9 B")
	assert.Contains(t, out, "sound/")

	err := runLs(&buf, LsOptions{}, filename, "missing")
	assert.True(t, errors.IsFatal(err), "unexpected error %v", err)
}

func TestWrongKey(t *testing.T) {
	withGlobalOptions(t, "other")
	filename := writeArchive(t, "169841")

	err := runLs(&bytes.Buffer{}, LsOptions{}, filename, "")
	assert.True(t, errors.IsFatal(err), "unexpected error %v", err)
	assert.Contains(t, err.Error(), "wrong key")
}

func TestCustomKey(t *testing.T) {
	withGlobalOptions(t, "secret")
	filename := writeArchive(t, "secret")

	var buf bytes.Buffer
	require.NoError(t, runCat(&buf, filename, []string{"type.txt", `media\sound\click.wav`}))
	assert.Equal(t, "type fileclick", buf.String())
}

func TestStat(t *testing.T) {
	withGlobalOptions(t, "")
	filename := writeArchive(t, "169841")

	var buf bytes.Buffer
	require.NoError(t, runStatArchive(&buf, filename))
	out := buf.String()
	assert.Contains(t, out, "encrypted:   true")
	assert.Contains(t, out, "chains:      3")
	assert.Contains(t, out, "files:       3")

	buf.Reset()
	require.NoError(t, runStat(&buf, filename, "media/icon.ddj"))
	assert.Contains(t, buf.String(), "size:     9 (9 B)")
}

func TestTree(t *testing.T) {
	withGlobalOptions(t, "")
	filename := writeArchive(t, "169841")

	var buf bytes.Buffer
	require.NoError(t, runTree(&buf, filename, ""))
	assert.Equal(t, strings.Join([]string{
		"/",
		"  media/",
		"    icon.ddj",
		"    sound/",
		"      click.wav",
		"  type.txt",
		"",
	}, "\n"), buf.String())

	buf.Reset()
	require.NoError(t, runTree(&buf, filename, "media/sound"))
	assert.Equal(t, "/media/sound\n  click.wav\n", buf.String())
}

func TestExtract(t *testing.T) {
	withGlobalOptions(t, "")
	filename := writeArchive(t, "169841")
	dest := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, runExtract(context.TODO(), &buf, ExtractOptions{Workers: 2}, filename, dest, "media"))
	assert.Equal(t, "extracted 2 files and 2 directories, 14 B\n", buf.String())

	data, err := os.ReadFile(filepath.Join(dest, "sound", "click.wav"))
	require.NoError(t, err)
	assert.Equal(t, "click", string(data))
}

func TestExport(t *testing.T) {
	withGlobalOptions(t, "")
	filename := writeArchive(t, "169841")
	output := filepath.Join(t.TempDir(), "out.tar.zst")

	require.NoError(t, runExport(context.TODO(), &bytes.Buffer{}, ExportOptions{Zstd: true}, filename, output, ""))
	fi, err := os.Stat(output)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())

	var buf bytes.Buffer
	require.NoError(t, runExport(context.TODO(), &buf, ExportOptions{}, filename, "-", "type.txt"))
	assert.Contains(t, buf.String(), "type file")

	err = runExport(context.TODO(), &buf, ExportOptions{Max: true}, filename, "-", "")
	assert.True(t, errors.IsFatal(err))
}

func TestExportRemovesOutputOnError(t *testing.T) {
	withGlobalOptions(t, "")
	filename := writeArchive(t, "169841")
	output := filepath.Join(t.TempDir(), "out.tar")

	err := runExport(context.TODO(), &bytes.Buffer{}, ExportOptions{}, filename, output, "media/missing")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err), "%v", err)

	_, err = os.Lstat(output)
	assert.True(t, os.IsNotExist(err), "output left behind: %v", err)
}

func TestSum(t *testing.T) {
	withGlobalOptions(t, "")
	filename := writeArchive(t, "169841")

	sum := func(s string) string {
		h := sha256.Sum256([]byte(s))
		return hex.EncodeToString(h[:])
	}

	var buf bytes.Buffer
	require.NoError(t, runSum(&buf, filename, "media"))
	assert.Equal(t,
		sum("icon data")+"  media/icon.ddj\n"+sum("click")+"  media/sound/click.wav\n",
		buf.String())
}
