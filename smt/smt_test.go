package smt

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustmesh/proofcore/hashchain"
)

func TestEmptyTreeRoot(t *testing.T) {
	assert := require.New(t)

	tree := New()
	assert.Equal(0, tree.Len())
	assert.Equal(DefaultHeight, tree.Height())

	// root of the empty tree is the top default hash
	defaults := defaultHashes(DefaultHeight)
	assert.Equal(defaults[DefaultHeight], tree.Root())
}

func TestDefaultHashChain(t *testing.T) {
	assert := require.New(t)

	defaults := defaultHashes(4)
	assert.True(defaults[0].IsZero())
	for i := 1; i <= 4; i++ {
		assert.Equal(hashchain.HashInternal(defaults[i-1], defaults[i-1]), defaults[i])
	}
}

func TestHeightOptionClamped(t *testing.T) {
	assert := require.New(t)

	for _, h := range []int{-4, 0} {
		tree := New(WithHeight(h))
		assert.Equal(1, tree.Height())
	}
	assert.Equal(DefaultHeight, New(WithHeight(1000)).Height())

	// a height-1 tree is degenerate but must still round-trip proofs
	tree := New(WithHeight(0))
	tree.Insert([]byte("k"), []byte("v"))
	proof, err := tree.Prove([]byte("k"))
	assert.NoError(err)
	assert.True(VerifyMembership(proof, tree.Root()))
}

func TestInsertGetDelete(t *testing.T) {
	assert := require.New(t)

	tree := New()
	emptyRoot := tree.Root()

	rootAfterInsert := tree.Insert([]byte("k"), []byte("v"))
	assert.NotEqual(emptyRoot, rootAfterInsert)
	assert.Equal(rootAfterInsert, tree.Root())
	assert.True(tree.Contains([]byte("k")))

	v, ok := tree.Get([]byte("k"))
	assert.True(ok)
	assert.Equal(hashchain.HashKey([]byte("v")), v)

	old, removed := tree.Delete([]byte("k"))
	assert.True(removed)
	assert.Equal(hashchain.HashKey([]byte("v")), old)
	assert.False(tree.Contains([]byte("k")))
	assert.Equal(emptyRoot, tree.Root())

	// deleting an absent key is a no-op
	_, removed = tree.Delete([]byte("k"))
	assert.False(removed)
}

func TestDeleteRestoresPriorExclusion(t *testing.T) {
	assert := require.New(t)

	tree := New()
	rootEmpty := tree.Root()

	tree.Insert([]byte("k"), []byte("v"))
	rootInserted := tree.Root()

	tree.Insert([]byte("k2"), []byte("v2"))
	tree.Delete([]byte("k2"))
	rootDeleted := tree.Root()

	// empty, post-insert and the k2 round trip give distinct intermediate
	// states but deletion restores the exact prior root
	assert.NotEqual(rootEmpty, rootInserted)
	assert.Equal(rootInserted, rootDeleted)
	assert.False(tree.Contains([]byte("k2")))
}

func TestRootSequenceDistinct(t *testing.T) {
	assert := require.New(t)

	tree := New()
	r0 := tree.Root()
	r1 := tree.Insert([]byte("k"), []byte("v"))
	r2 := tree.Insert([]byte("k2"), []byte("v2"))
	tree.Delete([]byte("k"))
	r3 := tree.Root()

	roots := []hashchain.Hash{r0, r1, r2, r3}
	for i := range roots {
		for j := i + 1; j < len(roots); j++ {
			assert.NotEqual(roots[i], roots[j], "roots %d and %d", i, j)
		}
	}

	// removing the last key restores the empty root: the root is a pure
	// function of the leaf map
	tree.Delete([]byte("k2"))
	assert.Equal(r0, tree.Root())
}

func TestOrderIndependence(t *testing.T) {
	assert := require.New(t)

	t1 := New()
	t1.Insert([]byte("a"), []byte("va"))
	t1.Insert([]byte("b"), []byte("vb"))

	t2 := New()
	t2.Insert([]byte("b"), []byte("vb"))
	t2.Insert([]byte("a"), []byte("va"))

	assert.Equal(t1.Root(), t2.Root())
}

func TestMembershipDuality(t *testing.T) {
	assert := require.New(t)

	tree := New()
	tree.Insert([]byte("k"), []byte("v"))

	proof, err := tree.Prove([]byte("k"))
	assert.NoError(err)
	assert.True(proof.Membership())
	assert.True(VerifyMembership(proof, tree.Root()))

	_, err = tree.ProveNonMembership([]byte("k"))
	assert.ErrorIs(err, ErrInvalidProof)

	// the reverse for an un-inserted key
	nonProof, err := tree.ProveNonMembership([]byte("k2"))
	assert.NoError(err)
	assert.False(nonProof.Membership())
	assert.True(VerifyNonMembership(nonProof, tree.Root()))

	_, err = tree.Prove([]byte("k2"))
	assert.ErrorIs(err, ErrLeafNotFound)
}

func TestClaimMismatchRejected(t *testing.T) {
	assert := require.New(t)

	tree := New()
	tree.Insert([]byte("k"), []byte("v"))

	proof, err := tree.Prove([]byte("k"))
	assert.NoError(err)

	// an inclusion proof must not pass as an exclusion proof and vice versa
	assert.False(VerifyNonMembership(proof, tree.Root()))

	nonProof, err := tree.ProveNonMembership([]byte("other"))
	assert.NoError(err)
	assert.False(VerifyMembership(nonProof, tree.Root()))
}

func TestProofAgainstStaleRoot(t *testing.T) {
	assert := require.New(t)

	tree := New()
	tree.Insert([]byte("k"), []byte("v"))
	proof, err := tree.Prove([]byte("k"))
	assert.NoError(err)

	tree.Insert([]byte("k2"), []byte("v2"))

	assert.False(VerifyProof(proof, tree.Root()))
	assert.True(VerifyProof(proof, proof.Root))
}

func TestThreeKeysScenario(t *testing.T) {
	assert := require.New(t)

	tree := New()
	for _, name := range []string{"alice", "bob", "charlie"} {
		tree.Insert([]byte(name), []byte("balance:"+name))
	}
	root := tree.Root()

	for _, name := range []string{"alice", "bob", "charlie"} {
		proof, err := tree.Prove([]byte(name))
		assert.NoError(err)
		assert.True(VerifyMembership(proof, root), "proof for %q", name)
		assert.Equal(root, proof.Root)
		assert.Equal(DefaultHeight, len(proof.Siblings))
	}
}

func TestValueUpdateChangesRoot(t *testing.T) {
	assert := require.New(t)

	tree := New()
	r1 := tree.Insert([]byte("k"), []byte("v1"))
	r2 := tree.Insert([]byte("k"), []byte("v2"))
	assert.NotEqual(r1, r2)
	assert.Equal(1, tree.Len())
}

func TestReducedHeightExhaustive(t *testing.T) {
	// height-8 tree: verify every inserted key and a batch of absent keys
	assert := require.New(t)

	tree := New(WithHeight(8))
	keys := make([][]byte, 6)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("key-%d", i))
		tree.Insert(keys[i], []byte(fmt.Sprintf("val-%d", i)))
	}

	for _, k := range keys {
		proof, err := tree.Prove(k)
		assert.NoError(err)
		assert.Equal(8, len(proof.Siblings))
		assert.True(VerifyMembership(proof, tree.Root()))
	}

	for i := 100; i < 110; i++ {
		k := []byte(fmt.Sprintf("absent-%d", i))
		if tree.Contains(k) {
			continue // reduced height, collisions possible
		}
		proof, err := tree.ProveNonMembership(k)
		assert.NoError(err)
		assert.True(VerifyNonMembership(proof, tree.Root()))
	}
}

func TestTamperedProofFails(t *testing.T) {
	assert := require.New(t)

	tree := New()
	tree.Insert([]byte("k"), []byte("v"))
	proof, err := tree.Prove([]byte("k"))
	assert.NoError(err)

	proof.Siblings[13][0] ^= 0xff
	assert.False(VerifyProof(proof, tree.Root()))
}

func TestVerifyProofMalformed(t *testing.T) {
	assert := require.New(t)

	assert.False(VerifyProof(nil, hashchain.Hash{}))
	assert.False(VerifyProof(&Proof{}, hashchain.Hash{}))

	tooTall := &Proof{Siblings: make([]hashchain.Hash, DefaultHeight+1)}
	assert.False(VerifyProof(tooTall, hashchain.Hash{}))
}

func TestProofJSONRoundTrip(t *testing.T) {
	assert := require.New(t)

	tree := New()
	tree.Insert([]byte("k"), []byte("v"))
	proof, err := tree.Prove([]byte("k"))
	assert.NoError(err)

	raw, err := json.Marshal(proof)
	assert.NoError(err)

	var back Proof
	assert.NoError(json.Unmarshal(raw, &back))
	assert.True(VerifyMembership(&back, tree.Root()))
	assert.Equal(proof.Key, back.Key)
	assert.NotNil(back.Value)
	assert.Equal(*proof.Value, *back.Value)

	// exclusion proofs keep the value absent across the wire
	nonProof, err := tree.ProveNonMembership([]byte("k2"))
	assert.NoError(err)
	raw, err = json.Marshal(nonProof)
	assert.NoError(err)
	var backNon Proof
	assert.NoError(json.Unmarshal(raw, &backNon))
	assert.Nil(backNon.Value)
	assert.True(VerifyNonMembership(&backNon, tree.Root()))
}

func TestProofSize(t *testing.T) {
	assert := require.New(t)

	tree := New()
	tree.Insert([]byte("k"), []byte("v"))

	proof, err := tree.Prove([]byte("k"))
	assert.NoError(err)
	assert.Equal((2+DefaultHeight+1)*hashchain.HashSize, proof.Size())

	nonProof, err := tree.ProveNonMembership([]byte("k2"))
	assert.NoError(err)
	assert.Equal((2+DefaultHeight)*hashchain.HashSize, nonProof.Size())
}
