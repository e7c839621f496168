// Package merkle implements a fixed-leaf-set binary Merkle tree with
// power-of-two padding and single-leaf inclusion proofs.
//
// The tree is immutable once built; a new leaf set requires a new tree.
// Leaf and internal hashes are domain separated (see package hashchain), so
// a leaf can never be reinterpreted as an internal node by a forged proof.
package merkle

import (
	"errors"

	"github.com/trustmesh/proofcore/hashchain"
	"github.com/trustmesh/proofcore/internal/utils"
	"github.com/trustmesh/proofcore/logger"
)

var (
	// ErrEmptyTree is returned when building a tree from zero leaves.
	ErrEmptyTree = errors.New("merkle: empty tree")

	// ErrLeafNotFound is returned when an index or leaf data is not in the tree.
	ErrLeafNotFound = errors.New("merkle: leaf not found")
)

// Tree is a dense binary Merkle tree. nodes stores the padded leaf level
// followed by each internal level, flattened; the root is the last element.
// len(nodes) == 2*nextPow2(leafCount) - 1.
type Tree struct {
	nodes     []hashchain.Hash
	leafCount int
}

// New builds a tree over raw leaf data. Each leaf is hashed with the leaf
// domain tag before insertion.
func New(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	hashes := make([]hashchain.Hash, len(leaves))
	for i, leaf := range leaves {
		hashes[i] = hashchain.HashLeaf(leaf)
	}
	return FromHashes(hashes)
}

// FromHashes builds a tree over already-hashed leaves.
func FromHashes(hashes []hashchain.Hash) (*Tree, error) {
	if len(hashes) == 0 {
		return nil, ErrEmptyTree
	}

	leafCount := len(hashes)
	padded := utils.NextPowerOfTwo(leafCount)

	nodes := make([]hashchain.Hash, 0, 2*padded-1)
	nodes = append(nodes, hashes...)
	for i := leafCount; i < padded; i++ {
		nodes = append(nodes, hashchain.ZeroHash)
	}

	// build bottom-up, level by level
	levelStart := 0
	for levelSize := padded; levelSize > 1; levelSize /= 2 {
		for i := 0; i < levelSize; i += 2 {
			nodes = append(nodes, hashchain.HashInternal(nodes[levelStart+i], nodes[levelStart+i+1]))
		}
		levelStart += levelSize
	}

	t := &Tree{nodes: nodes, leafCount: leafCount}

	log := logger.Logger()
	log.Debug().Int("leaves", leafCount).Int("padded", padded).Int("depth", t.Depth()).Msg("built dense merkle tree")

	return t, nil
}

// Root returns the tree root.
func (t *Tree) Root() hashchain.Hash {
	return t.nodes[len(t.nodes)-1]
}

// LeafCount returns the number of (unpadded) leaves.
func (t *Tree) LeafCount() int {
	return t.leafCount
}

// Depth returns the number of levels between a leaf and the root.
func (t *Tree) Depth() int {
	return utils.Log2Ceil(utils.NextPowerOfTwo(t.leafCount))
}

// LeafHash returns the stored hash at the given padded slot.
func (t *Tree) LeafHash(index int) (hashchain.Hash, error) {
	if index < 0 || index >= t.paddedCount() {
		return hashchain.Hash{}, ErrLeafNotFound
	}
	return t.nodes[index], nil
}

func (t *Tree) paddedCount() int {
	return (len(t.nodes) + 1) / 2
}

// Prove produces an inclusion proof for the leaf at index. The proof walks
// from the leaf to the root recording, per level, the sibling hash and
// whether that sibling sits to the left of the current node.
func (t *Tree) Prove(index int) (*Proof, error) {
	if index < 0 || index >= t.leafCount {
		return nil, ErrLeafNotFound
	}

	padded := t.paddedCount()
	proofNodes := make([]ProofNode, 0, t.Depth())

	idx := index
	levelStart := 0
	for levelSize := padded; levelSize > 1; levelSize /= 2 {
		sibling := idx ^ 1
		proofNodes = append(proofNodes, ProofNode{
			Sibling: t.nodes[levelStart+sibling],
			IsLeft:  idx%2 == 1,
		})
		levelStart += levelSize
		idx /= 2
	}

	return &Proof{
		LeafIndex:  index,
		ProofNodes: proofNodes,
		Root:       t.Root(),
	}, nil
}

// ProveData locates the leaf slot whose stored hash equals the leaf hash of
// data and proves it.
func (t *Tree) ProveData(data []byte) (*Proof, error) {
	target := hashchain.HashLeaf(data)
	for i := 0; i < t.leafCount; i++ {
		if t.nodes[i] == target {
			return t.Prove(i)
		}
	}
	return nil, ErrLeafNotFound
}
