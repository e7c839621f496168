// Package proofcore provides cryptographic commitments and proofs: two
// Merkle-tree variants for membership and non-membership evidence, a
// zero-knowledge proof toolkit, and a batch verifier.
//
// proofcore exposes the following building blocks:
//   - merkle: dense binary Merkle trees with single-leaf inclusion proofs
//   - smt: sparse Merkle trees with inclusion and non-inclusion proofs
//   - zk: Schnorr knowledge proofs and Pedersen commitment-equality proofs
//   - batch: randomized linear-combination batch verification
//
// The root package re-exports verification entry points that accept only
// already-constructed proofs and public data; secret material never
// crosses this boundary.
package proofcore

import (
	"github.com/blang/semver/v4"
)

// Version is the module version stamped into serialization envelopes.
var Version = semver.MustParse("1.0.0")
