// Package zk implements discrete-log knowledge proofs and Pedersen
// commitment-equality proofs over the BN254 G1 group.
//
// G1 has prime order, so every non-identity point generates the group. The
// second Pedersen generator H is derived by hashing the encoding of the
// canonical generator G to the curve under a fixed domain string: nobody
// knows the discrete log of H base G, which is what makes commitments
// binding.
//
// Curve arithmetic (constant-time scalar multiplication, point
// compression, multiscalar multiplication) comes from gnark-crypto; this
// package never implements group operations itself.
package zk

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrInvalidProof is returned by byte-level constructors for structurally
// invalid input: wrong-size slices or point encodings that fail to
// decompress. Cryptographic verification failures are booleans, not errors.
var ErrInvalidProof = errors.New("zk: invalid proof")

const hashToGroupDST = "proofcore/v1/pedersen/H"

var (
	generatorsOnce sync.Once
	generatorG     bn254.G1Affine
	generatorH     bn254.G1Affine
)

// Generators returns the two Pedersen generators (G, H). G is the canonical
// BN254 G1 generator; H is the hash-to-group image of G's encoding under the
// package domain string.
func Generators() (g, h bn254.G1Affine) {
	generatorsOnce.Do(func() {
		_, _, g1Aff, _ := bn254.Generators()
		generatorG = g1Aff
		hAff, err := bn254.HashToG1(generatorG.Marshal(), []byte(hashToGroupDST))
		if err != nil {
			// fixed input; only reachable if the curve parameters are broken
			panic(fmt.Sprintf("zk: deriving H: %v", err))
		}
		generatorH = hAff
	})
	return generatorG, generatorH
}

// RandomScalar samples a uniformly random scalar from crypto/rand.
func RandomScalar() (fr.Element, error) {
	var s fr.Element
	if _, err := s.SetRandom(); err != nil {
		return fr.Element{}, err
	}
	return s, nil
}

// WideRandomScalar samples 64 random bytes and reduces them into the scalar
// field. The 512-bit wide reduction keeps the statistical distance from
// uniform below 2^-128, which the batch soundness bound relies on.
func WideRandomScalar() (fr.Element, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fr.Element{}, err
	}
	var wide big.Int
	wide.SetBytes(buf[:])
	wide.Mod(&wide, fr.Modulus())
	var s fr.Element
	s.SetBigInt(&wide)
	return s, nil
}

// MapToScalar reduces SHA256(data) into the scalar field.
func MapToScalar(data []byte) fr.Element {
	digest := sha256.Sum256(data)
	var s fr.Element
	s.SetBytes(digest[:])
	return s
}

// challenge hashes the transcript parts into a 32-byte Fiat-Shamir
// challenge.
func challenge(parts ...[]byte) Bytes32 {
	h := sha256.New()
	for _, part := range parts {
		h.Write(part)
	}
	var out Bytes32
	copy(out[:], h.Sum(nil))
	return out
}

// challengeScalar reduces a 32-byte challenge into the scalar field.
func challengeScalar(c Bytes32) fr.Element {
	var s fr.Element
	s.SetBytes(c[:])
	return s
}

// wipe zeroes a scalar holding secret material once it is no longer needed.
func wipe(s *fr.Element) {
	s.SetZero()
}

// Bytes32 is a fixed 32-byte wire field (compressed group element, hash
// challenge, or big-endian scalar), hex-encoded in JSON.
type Bytes32 [32]byte

// Hex returns the 0x-prefixed hexadecimal representation.
func (b Bytes32) Hex() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) String() string {
	return b.Hex()
}

// MarshalJSON encodes the value as a hex string.
func (b Bytes32) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Hex())
}

// UnmarshalJSON decodes a hex string (with or without 0x prefix).
func (b *Bytes32) UnmarshalJSON(data []byte) error {
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
	if len(raw) != len(b) {
		return fmt.Errorf("invalid field length %d", len(raw))
	}
	copy(b[:], raw)
	return nil
}
