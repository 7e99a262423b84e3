package cache

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidSize(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(-3)
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	data := []byte("file content")
	c.Add(0x100, data)
	assert.True(t, c.has(0x100))

	// modifying the original buffer does not change the cached content
	data[0] = 'X'
	buf, ok := c.Get(0x100)
	require.True(t, ok)
	assert.Equal(t, []byte("file content"), buf)

	// and neither does modifying a returned buffer
	buf[0] = 'Y'
	buf, ok = c.Get(0x100)
	require.True(t, ok)
	assert.Equal(t, []byte("file content"), buf)

	_, ok = c.Get(0x200)
	assert.False(t, ok)
}

func TestCacheEviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Add(1, []byte("one"))
	c.Add(2, []byte("two"))

	// use 1 so that 2 is the least recently used file
	_, ok := c.Get(1)
	require.True(t, ok)

	c.Add(3, []byte("three"))
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.has(1))
	assert.False(t, c.has(2))
	assert.True(t, c.has(3))

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCacheLargeFile(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Add(1, bytes.Repeat([]byte{'x'}, MaxFileSize+1))
	assert.False(t, c.has(1))
	assert.Equal(t, 0, c.Len())
}

func TestNilCache(t *testing.T) {
	var c *Cache

	c.Add(1, []byte("data"))
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.False(t, c.has(1))
	assert.Equal(t, 0, c.Len())
	c.Clear()
}
