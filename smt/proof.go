package smt

import (
	"github.com/trustmesh/proofcore/hashchain"
)

// Proof is a self-contained sparse-tree proof for one key. A nil Value
// carries a non-membership claim; verification alone cannot distinguish the
// two claims from the sibling path, so callers must check the claim through
// Membership or the claim-explicit verify wrappers.
type Proof struct {
	Key      hashchain.Hash   `json:"key"`
	Value    *hashchain.Hash  `json:"value,omitempty"`
	Siblings []hashchain.Hash `json:"siblings"`
	Root     hashchain.Hash   `json:"root"`
}

// Membership reports the claim carried by the proof: true for inclusion,
// false for exclusion.
func (p *Proof) Membership() bool {
	return p.Value != nil
}

// Size returns the serialized proof size in bytes: the key, the optional
// value, every sibling hash, and the root.
func (p *Proof) Size() int {
	size := (2 + len(p.Siblings)) * hashchain.HashSize
	if p.Value != nil {
		size += hashchain.HashSize
	}
	return size
}

// VerifyProof folds the sibling path over the claimed leaf value (the raw
// value hash, or the zero hash for exclusion claims; the leaf level is not
// re-wrapped with the leaf domain tag) and reports whether it reaches root.
// The sibling side at each level is chosen by key bit height-1-level,
// MSB-first. Structurally malformed proofs verify false, never panic.
func VerifyProof(proof *Proof, root hashchain.Hash) bool {
	if proof == nil || len(proof.Siblings) == 0 {
		return false
	}
	height := len(proof.Siblings)
	if height > DefaultHeight {
		return false
	}

	current := hashchain.ZeroHash
	if proof.Value != nil {
		current = *proof.Value
	}

	path := pathBits(proof.Key, height)
	for level := 0; level < height; level++ {
		if path.Test(uint(height - 1 - level)) {
			current = hashchain.HashInternal(proof.Siblings[level], current)
		} else {
			current = hashchain.HashInternal(current, proof.Siblings[level])
		}
	}
	return current == root
}

// VerifyMembership verifies an inclusion claim against root. Proofs
// carrying an exclusion claim are rejected outright.
func VerifyMembership(proof *Proof, root hashchain.Hash) bool {
	if proof == nil || !proof.Membership() {
		return false
	}
	return VerifyProof(proof, root)
}

// VerifyNonMembership verifies an exclusion claim against root. Proofs
// carrying an inclusion claim are rejected outright.
func VerifyNonMembership(proof *Proof, root hashchain.Hash) bool {
	if proof == nil || proof.Membership() {
		return false
	}
	return VerifyProof(proof, root)
}
