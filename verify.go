package proofcore

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/trustmesh/proofcore/batch"
	"github.com/trustmesh/proofcore/hashchain"
	"github.com/trustmesh/proofcore/merkle"
	"github.com/trustmesh/proofcore/smt"
	"github.com/trustmesh/proofcore/zk"
)

// VerifySchnorr checks a Schnorr knowledge proof against a public point and
// message.
func VerifySchnorr(proof *zk.SchnorrProof, public bn254.G1Affine, message []byte) bool {
	return proof.Verify(public, message)
}

// VerifyEquality checks that the two Pedersen commitments embedded in the
// proof hide the same value.
func VerifyEquality(proof *zk.EqualityProof) bool {
	return proof.Verify()
}

// VerifyMerkleInclusion checks a dense-tree inclusion proof against the
// leaf data it claims to include.
func VerifyMerkleInclusion(proof *merkle.Proof, data []byte) bool {
	return proof.Verify(data)
}

// VerifySparseMembership checks a sparse-tree inclusion claim against a
// root. Proofs carrying a non-membership claim are rejected.
func VerifySparseMembership(proof *smt.Proof, root hashchain.Hash) bool {
	return smt.VerifyMembership(proof, root)
}

// VerifySparseNonMembership checks a sparse-tree exclusion claim against a
// root. Proofs carrying a membership claim are rejected.
func VerifySparseNonMembership(proof *smt.Proof, root hashchain.Hash) bool {
	return smt.VerifyNonMembership(proof, root)
}

// NewBatchVerifier returns an empty batch verifier.
func NewBatchVerifier(opts ...batch.Option) *batch.Verifier {
	return batch.NewVerifier(opts...)
}
