// Package smt implements a key-addressed sparse Merkle tree over the full
// 256-bit SHA-256 key space, with inclusion and non-inclusion proofs.
//
// Empty subtrees are represented by precomputed default hashes instead of
// being materialized, so per-operation cost is proportional to the number
// of stored keys rather than the key space. The root is a pure function of
// the stored leaf map and is independent of insertion order.
package smt

import (
	"bytes"
	"errors"
	"sort"
	"sync"

	"github.com/trustmesh/proofcore/hashchain"
	"github.com/trustmesh/proofcore/logger"
)

// DefaultHeight is one tree level per bit of a SHA-256 key hash.
const DefaultHeight = 256

var (
	// ErrLeafNotFound is returned when proving membership of an absent key.
	ErrLeafNotFound = errors.New("smt: leaf not found")

	// ErrInvalidProof is returned for structurally invalid proof input,
	// including proving non-membership of a present key.
	ErrInvalidProof = errors.New("smt: invalid proof")
)

// nodeKey addresses a cached internal node: the subtree depth (leaves at 0,
// root at height) and the path prefix leading to it, zero-padded past the
// meaningful bits.
type nodeKey struct {
	depth  int
	prefix hashchain.Hash
}

// Tree is a sparse Merkle tree. Mutation is single-writer; concurrent reads
// are safe only when no mutation is in flight.
type Tree struct {
	height int

	// leaves maps key hash to value hash.
	leaves map[hashchain.Hash]hashchain.Hash

	// sorted key hashes, the prefix index for empty-subtree detection
	sorted []hashchain.Hash

	// internal-node cache, cleared wholesale on every mutation
	nodes map[nodeKey]hashchain.Hash

	defaults []hashchain.Hash
	root     hashchain.Hash
}

// Option configures a Tree.
type Option func(*Tree)

// WithHeight overrides the tree height. Reduced heights are meant for
// exhaustive tests; production trees use DefaultHeight. Values are clamped
// to [1, DefaultHeight].
func WithHeight(height int) Option {
	return func(t *Tree) {
		if height < 1 {
			height = 1
		}
		if height > DefaultHeight {
			height = DefaultHeight
		}
		t.height = height
	}
}

// New returns an empty sparse Merkle tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		height: DefaultHeight,
		leaves: make(map[hashchain.Hash]hashchain.Hash),
		nodes:  make(map[nodeKey]hashchain.Hash),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.defaults = defaultHashes(t.height)
	t.root = t.defaults[t.height]
	return t
}

var (
	defaultHashesOnce sync.Once
	defaultHashes256  []hashchain.Hash
)

// defaultHashes returns the per-depth hashes of fully empty subtrees:
// defaults[0] is the zero hash, defaults[i] = H(defaults[i-1], defaults[i-1]).
func defaultHashes(height int) []hashchain.Hash {
	if height == DefaultHeight {
		defaultHashesOnce.Do(func() {
			defaultHashes256 = computeDefaultHashes(DefaultHeight)
		})
		return defaultHashes256
	}
	return computeDefaultHashes(height)
}

func computeDefaultHashes(height int) []hashchain.Hash {
	defaults := make([]hashchain.Hash, height+1)
	defaults[0] = hashchain.ZeroHash
	for i := 1; i <= height; i++ {
		defaults[i] = hashchain.HashInternal(defaults[i-1], defaults[i-1])
	}
	return defaults
}

// Height returns the tree height.
func (t *Tree) Height() int {
	return t.height
}

// Len returns the number of stored keys.
func (t *Tree) Len() int {
	return len(t.leaves)
}

// Root returns the current root.
func (t *Tree) Root() hashchain.Hash {
	return t.root
}

// Get returns the stored value hash for key, if present.
func (t *Tree) Get(key []byte) (hashchain.Hash, bool) {
	v, ok := t.leaves[hashchain.HashKey(key)]
	return v, ok
}

// Contains reports whether key is present.
func (t *Tree) Contains(key []byte) bool {
	_, ok := t.leaves[hashchain.HashKey(key)]
	return ok
}

// Insert stores the value under key (both hashed) and returns the new root.
// Re-insertion overwrites the stored value hash.
func (t *Tree) Insert(key, value []byte) hashchain.Hash {
	kh := hashchain.HashKey(key)
	vh := hashchain.HashKey(value)

	if _, exists := t.leaves[kh]; !exists {
		t.insertSorted(kh)
	}
	t.leaves[kh] = vh

	t.invalidate()
	t.recomputeRoot()

	log := logger.Logger()
	log.Debug().Str("key", kh.Hex()).Int("leaves", len(t.leaves)).Msg("smt insert")

	return t.root
}

// Delete removes key from the tree, returning the old value hash and
// whether anything was removed. The root is recomputed only on removal.
func (t *Tree) Delete(key []byte) (hashchain.Hash, bool) {
	kh := hashchain.HashKey(key)
	old, ok := t.leaves[kh]
	if !ok {
		return hashchain.Hash{}, false
	}

	delete(t.leaves, kh)
	t.removeSorted(kh)

	t.invalidate()
	t.recomputeRoot()

	return old, true
}

func (t *Tree) insertSorted(kh hashchain.Hash) {
	i := sort.Search(len(t.sorted), func(i int) bool {
		return bytes.Compare(t.sorted[i][:], kh[:]) >= 0
	})
	t.sorted = append(t.sorted, hashchain.Hash{})
	copy(t.sorted[i+1:], t.sorted[i:])
	t.sorted[i] = kh
}

func (t *Tree) removeSorted(kh hashchain.Hash) {
	i := sort.Search(len(t.sorted), func(i int) bool {
		return bytes.Compare(t.sorted[i][:], kh[:]) >= 0
	})
	if i < len(t.sorted) && t.sorted[i] == kh {
		t.sorted = append(t.sorted[:i], t.sorted[i+1:]...)
	}
}

func (t *Tree) invalidate() {
	// full clear keeps mutation simple; the root below is recomputed from
	// the leaf map alone, so the result cannot depend on stale entries
	t.nodes = make(map[nodeKey]hashchain.Hash)
}

func (t *Tree) recomputeRoot() {
	t.root = t.computeSubtree(t.height, hashchain.Hash{})
}

// computeSubtree returns the hash of the subtree at the given depth whose
// path from the root is the first (height - depth) bits of prefix. Subtrees
// without a descendant leaf resolve to the default hash for their depth
// without traversal.
func (t *Tree) computeSubtree(depth int, prefix hashchain.Hash) hashchain.Hash {
	if depth == 0 {
		if v, ok := t.leafAtPrefix(prefix); ok {
			return v
		}
		return t.defaults[0]
	}

	prefixBits := t.height - depth
	if !t.hasLeafWithPrefix(prefix, prefixBits) {
		return t.defaults[depth]
	}

	nk := nodeKey{depth: depth, prefix: prefix}
	if h, ok := t.nodes[nk]; ok {
		return h
	}

	left := t.computeSubtree(depth-1, prefix)
	right := t.computeSubtree(depth-1, setBit(prefix, prefixBits))
	h := hashchain.HashInternal(left, right)
	t.nodes[nk] = h
	return h
}

// leafAtPrefix returns the value hash of the stored key addressed by the
// full height-bit path in prefix. At the default height the path is the
// whole key hash; at reduced (test) heights the first key sharing the path
// bits wins.
func (t *Tree) leafAtPrefix(prefix hashchain.Hash) (hashchain.Hash, bool) {
	i := sort.Search(len(t.sorted), func(i int) bool {
		return bytes.Compare(t.sorted[i][:], prefix[:]) >= 0
	})
	if i == len(t.sorted) || !hasPrefixBits(t.sorted[i], prefix, t.height) {
		return hashchain.Hash{}, false
	}
	return t.leaves[t.sorted[i]], true
}

// hasLeafWithPrefix reports whether any stored key starts with the first
// `bits` bits of prefix. The zero-padded prefix is the smallest key with
// that prefix, so the candidate is the first sorted key >= prefix.
func (t *Tree) hasLeafWithPrefix(prefix hashchain.Hash, bits int) bool {
	if bits == 0 {
		return len(t.sorted) > 0
	}
	i := sort.Search(len(t.sorted), func(i int) bool {
		return bytes.Compare(t.sorted[i][:], prefix[:]) >= 0
	})
	if i == len(t.sorted) {
		return false
	}
	return hasPrefixBits(t.sorted[i], prefix, bits)
}

// Prove produces a membership proof for key. Fails with ErrLeafNotFound if
// the key is absent.
func (t *Tree) Prove(key []byte) (*Proof, error) {
	kh := hashchain.HashKey(key)
	vh, ok := t.leaves[kh]
	if !ok {
		return nil, ErrLeafNotFound
	}
	value := vh
	return &Proof{
		Key:      kh,
		Value:    &value,
		Siblings: t.collectSiblings(kh),
		Root:     t.root,
	}, nil
}

// ProveNonMembership produces an exclusion proof for key. Fails with
// ErrInvalidProof if the key is present.
func (t *Tree) ProveNonMembership(key []byte) (*Proof, error) {
	kh := hashchain.HashKey(key)
	if _, ok := t.leaves[kh]; ok {
		return nil, ErrInvalidProof
	}
	return &Proof{
		Key:      kh,
		Siblings: t.collectSiblings(kh),
		Root:     t.root,
	}, nil
}

// collectSiblings walks from the root's first split down to the leaf and
// returns the sibling subtree hash at every level, ordered leaf-first
// (index 0 adjacent to the leaf).
func (t *Tree) collectSiblings(kh hashchain.Hash) []hashchain.Hash {
	siblings := make([]hashchain.Hash, t.height)
	for i := 0; i < t.height; i++ {
		level := t.height - 1 - i

		// sibling shares the first i bits and differs at bit i
		prefix := copyPrefixBits(kh, i)
		if !keyBit(kh, i) {
			prefix = setBit(prefix, i)
		}
		siblings[level] = t.computeSubtree(level, prefix)
	}
	return siblings
}
