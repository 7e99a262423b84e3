package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	derived := DeriveKey([]byte(DefaultKey))
	require.Len(t, derived, len(DefaultKey))

	for i := range derived {
		assert.Equal(t, DefaultKey[i]^salt[i], derived[i])
	}

	long := bytes.Repeat([]byte{'k'}, 80)
	derived = DeriveKey(long)
	assert.Len(t, derived, maxKeySize)
	// bytes past the salt are used unchanged
	assert.Equal(t, byte('k'), derived[maxKeySize-1])
}

func TestNewKeyEmpty(t *testing.T) {
	_, err := NewKey(nil)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestEncryptDecrypt(t *testing.T) {
	k, err := NewKey([]byte(DefaultKey))
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte("0123456789abcdef"), 160)
	buf := append([]byte(nil), plaintext...)

	require.NoError(t, k.Encrypt(buf))
	assert.NotEqual(t, plaintext, buf)

	require.NoError(t, k.DecryptBlock(buf))
	assert.Equal(t, plaintext, buf)
}

func TestEncryptKnownAnswer(t *testing.T) {
	k, err := NewKey([]byte(DefaultKey))
	require.NoError(t, err)

	buf := []byte("Joymax Pak File\x00")
	require.NoError(t, k.Encrypt(buf))
	assert.Equal(t, "d8da30cf32e671fcf85815389c473af7", hex.EncodeToString(buf))

	require.NoError(t, k.Decrypt(buf))
	assert.Equal(t, []byte("Joymax Pak File\x00"), buf)

	assert.Equal(t, [ChecksumSize]byte{0xd8, 0xda, 0x30}, k.Checksum())
	assert.True(t, k.Verify([]byte{0xd8, 0xda, 0x30, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}))
}

func TestDecryptUnaligned(t *testing.T) {
	k, err := NewKey([]byte(DefaultKey))
	require.NoError(t, err)

	err = k.Decrypt(make([]byte, BlockSize+1))
	assert.ErrorIs(t, err, ErrUnaligned)

	err = k.Encrypt(make([]byte, 3))
	assert.ErrorIs(t, err, ErrUnaligned)
}

func TestChecksum(t *testing.T) {
	k1, err := NewKey([]byte(DefaultKey))
	require.NoError(t, err)
	k2, err := NewKey([]byte("another key"))
	require.NoError(t, err)

	sum := k1.Checksum()
	assert.True(t, k1.Verify(sum[:]))
	assert.False(t, k1.Verify(sum[:2]))

	other := k2.Checksum()
	assert.NotEqual(t, sum, other)
	assert.False(t, k2.Verify(sum[:]))
}

func TestPaddedLength(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 0},
		{1, BlockSize},
		{BlockSize, BlockSize},
		{15, 16},
		{2560, 2560},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaddedLength(tt.size), "size %d", tt.size)
		assert.Len(t, NewBlockBuffer(tt.size), tt.want)
	}
}
