package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriteBytesShort writes a short byte slice (maximum length of 255) to a
// writer, prefixed with its one-byte length. Used for message fields in
// proof statements.
func WriteBytesShort(data []byte, writer io.Writer) (int64, error) {
	if len(data) > 255 {
		return 0, fmt.Errorf("data too long %d > 255", len(data))
	}
	if err := binary.Write(writer, binary.BigEndian, uint8(len(data))); err != nil {
		return math.MinInt, err // not sure how many bytes were written
	}
	n, err := writer.Write(data)
	return int64(n) + 1, err
}

// ReadBytesShort reads a short byte slice (maximum length of 255) from a
// reader.
func ReadBytesShort(reader io.Reader) ([]byte, int64, error) {
	var length uint8
	if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
		return nil, math.MinInt, err // not sure how many bytes were read
	}
	if length == 0 {
		return nil, 1, nil
	}
	data := make([]byte, length)
	dn, err := io.ReadFull(reader, data)
	return data, 1 + int64(dn), err
}
