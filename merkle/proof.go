package merkle

import (
	"github.com/trustmesh/proofcore/hashchain"
)

// ProofNode is one level of an inclusion proof: the sibling hash and its
// position relative to the node being proven.
type ProofNode struct {
	Sibling hashchain.Hash `json:"sibling"`
	IsLeft  bool           `json:"is_left"`
}

// Proof is a self-contained single-leaf inclusion proof. It verifies
// against its embedded root without access to the original tree.
type Proof struct {
	LeafIndex  int            `json:"leaf_index"`
	ProofNodes []ProofNode    `json:"proof_nodes"`
	Root       hashchain.Hash `json:"root"`
}

// Verify recomputes the root from the leaf data and the sibling path and
// reports whether it matches the embedded root. Pure check, no side effects.
func (p *Proof) Verify(data []byte) bool {
	current := hashchain.HashLeaf(data)
	for _, node := range p.ProofNodes {
		if node.IsLeft {
			current = hashchain.HashInternal(node.Sibling, current)
		} else {
			current = hashchain.HashInternal(current, node.Sibling)
		}
	}
	return current == p.Root
}

// Size returns the serialized proof size in bytes: one flag byte plus a
// 32-byte hash per level, plus the root. Capacity-planning code depends on
// this exact formula.
func (p *Proof) Size() int {
	return len(p.ProofNodes)*(hashchain.HashSize+1) + hashchain.HashSize
}
