package io

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesShortRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: []byte{}},
		{name: "small", input: []byte{1, 2, 3}},
		{name: "medium", input: bytes.Repeat([]byte{42}, 100)},
		{name: "max length", input: bytes.Repeat([]byte{255}, 255)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)
			var buf bytes.Buffer

			written, err := WriteBytesShort(tc.input, &buf)
			assert.NoError(err)
			assert.Equal(int64(len(tc.input)+1), written)

			readData, read, err := ReadBytesShort(&buf)
			assert.NoError(err)
			assert.Equal(written, read)
			assert.Equal(tc.input, readData)
		})
	}
}

func TestWriteBytesShortTooLong(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteBytesShort(bytes.Repeat([]byte{1}, 256), &buf)
	require.Error(t, err)
}

func TestReadBytesShortWithFailingReader(t *testing.T) {
	assert := require.New(t)

	_, n, err := ReadBytesShort(&failingReader{})
	assert.Error(err)
	assert.Equal(int64(math.MinInt), n)
}

func TestReadBytesShortTruncated(t *testing.T) {
	assert := require.New(t)

	// length byte claims 10 bytes, only 5 follow
	_, _, err := ReadBytesShort(bytes.NewReader([]byte{10, 1, 2, 3, 4, 5}))
	assert.Error(err)
}

// failingReader is a mock reader that always fails.
type failingReader struct{}

func (r *failingReader) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("mock read error")
}
