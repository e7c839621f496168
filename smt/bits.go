package smt

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/trustmesh/proofcore/hashchain"
)

// Bit indexing is MSB-first and 0-indexed: bit 0 is the most significant
// bit of the first byte of the key hash.

func keyBit(h hashchain.Hash, i int) bool {
	return h[i/8]&(0x80>>(i%8)) != 0
}

func setBit(h hashchain.Hash, i int) hashchain.Hash {
	h[i/8] |= 0x80 >> (i % 8)
	return h
}

// copyPrefixBits keeps the first `bits` bits of h and zeroes the rest.
func copyPrefixBits(h hashchain.Hash, bits int) hashchain.Hash {
	var out hashchain.Hash
	full := bits / 8
	copy(out[:full], h[:full])
	if rem := bits % 8; rem > 0 {
		out[full] = h[full] & (0xff << (8 - rem))
	}
	return out
}

// hasPrefixBits reports whether key starts with the first `bits` bits of prefix.
func hasPrefixBits(key, prefix hashchain.Hash, bits int) bool {
	full := bits / 8
	for i := 0; i < full; i++ {
		if key[i] != prefix[i] {
			return false
		}
	}
	if rem := bits % 8; rem > 0 {
		mask := byte(0xff << (8 - rem))
		if key[full]&mask != prefix[full]&mask {
			return false
		}
	}
	return true
}

// pathBits expands the first n bits of the key hash into a bitset, bit i
// being the MSB-first bit i of the key.
func pathBits(h hashchain.Hash, n int) *bitset.BitSet {
	bs := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		bs.SetTo(uint(i), keyBit(h, i))
	}
	return bs
}
