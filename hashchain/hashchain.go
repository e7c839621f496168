// Package hashchain implements the domain-separated SHA-256 hashing shared
// by the dense and sparse Merkle trees.
//
// Leaf and internal-node hashes carry distinct single-byte prefixes so a
// leaf hash can never collide with an internal-node hash; every external
// verifier of our tree roots must reproduce these prefixes exactly.
package hashchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the byte length of every tree hash.
const HashSize = sha256.Size

// Domain tags for leaf and internal-node hashing.
const (
	tagLeaf     = 0x00
	tagInternal = 0x01
)

// Hash is a fixed 32-byte SHA-256 digest.
type Hash [HashSize]byte

// ZeroHash is the all-zero hash used for padded leaves and for the empty
// subtree at leaf level.
var ZeroHash = Hash{}

// HashLeaf returns SHA256(0x00 || data).
func HashLeaf(data []byte) Hash {
	h := sha256.New()
	h.Write([]byte{tagLeaf})
	h.Write(data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashInternal returns SHA256(0x01 || left || right).
func HashInternal(left, right Hash) Hash {
	h := sha256.New()
	h.Write([]byte{tagInternal})
	h.Write(left[:])
	h.Write(right[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashKey returns the plain SHA256 of k, without a domain tag. It addresses
// leaves in the sparse tree and hashes stored values.
func HashKey(k []byte) Hash {
	return Hash(sha256.Sum256(k))
}

// BytesToHash copies b into a Hash. Inputs longer than HashSize keep the
// trailing bytes, shorter inputs are left-padded with zeros.
func BytesToHash(b []byte) Hash {
	var out Hash
	if len(b) > HashSize {
		b = b[len(b)-HashSize:]
	}
	copy(out[HashSize-len(b):], b)
	return out
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Hex returns the 0x-prefixed hexadecimal representation of h.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// UnmarshalJSON decodes a hex string (with or without 0x prefix) into h.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(raw) != HashSize {
		return fmt.Errorf("invalid hash length %d", len(raw))
	}
	*h = BytesToHash(raw)
	return nil
}
