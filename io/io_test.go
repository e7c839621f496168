package io

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"

	"github.com/trustmesh/proofcore/smt"
	"github.com/trustmesh/proofcore/zk"
)

func TestSparseProofEnvelopeRoundTrip(t *testing.T) {
	assert := require.New(t)

	tree := smt.New()
	tree.Insert([]byte("alice"), []byte("va"))
	tree.Insert([]byte("bob"), []byte("vb"))

	proof, err := tree.Prove([]byte("alice"))
	assert.NoError(err)

	data, err := Marshal(proof)
	assert.NoError(err)

	var back smt.Proof
	assert.NoError(Unmarshal(data, &back))
	assert.True(smt.VerifyMembership(&back, tree.Root()))
}

func TestSchnorrEnvelopeRoundTrip(t *testing.T) {
	assert := require.New(t)

	secret, err := zk.RandomScalar()
	assert.NoError(err)
	var public bn254.G1Affine
	public.ScalarMultiplicationBase(secret.BigInt(new(big.Int)))

	proof, err := zk.ProveKnowledge(secret, public, []byte("envelope"))
	assert.NoError(err)

	var buf bytes.Buffer
	assert.NoError(Write(&buf, proof))

	var back zk.SchnorrProof
	assert.NoError(Read(&buf, &back))
	assert.Equal(*proof, back)
	assert.True(back.Verify(public, []byte("envelope")))
}

func TestReadRejectsNewerMajor(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	enc := encMode.NewEncoder(&buf)
	assert.NoError(enc.Encode("9.0.0"))
	assert.NoError(enc.Encode(map[string]int{"x": 1}))

	var out map[string]int
	assert.ErrorIs(Read(&buf, &out), ErrSerialization)
}

func TestReadRejectsGarbage(t *testing.T) {
	assert := require.New(t)

	var out smt.Proof
	assert.ErrorIs(Unmarshal([]byte{0xff, 0x00, 0x13}, &out), ErrSerialization)
	assert.ErrorIs(Unmarshal(nil, &out), ErrSerialization)
}
