package io

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/trustmesh/proofcore/zk"
)

// WriteSchnorrStatement serializes a self-contained verifiable statement:
// the compressed public point, the fixed-width proof, then the
// length-prefixed message.
func WriteSchnorrStatement(w io.Writer, public bn254.G1Affine, proof *zk.SchnorrProof, message []byte) error {
	pBytes := public.Bytes()
	if _, err := w.Write(pBytes[:]); err != nil {
		return err
	}
	if _, err := w.Write(proof.Bytes()); err != nil {
		return err
	}
	_, err := WriteBytesShort(message, w)
	return err
}

// ReadSchnorrStatement decodes a statement written by WriteSchnorrStatement.
// Structural failures are reported as ErrSerialization; the caller still
// has to verify the proof against the returned point and message.
func ReadSchnorrStatement(r io.Reader) (bn254.G1Affine, *zk.SchnorrProof, []byte, error) {
	var public bn254.G1Affine

	var pBuf [bn254.SizeOfG1AffineCompressed]byte
	if _, err := io.ReadFull(r, pBuf[:]); err != nil {
		return public, nil, nil, fmt.Errorf("%w: reading public point: %v", ErrSerialization, err)
	}
	if _, err := public.SetBytes(pBuf[:]); err != nil {
		return public, nil, nil, fmt.Errorf("%w: decoding public point: %v", ErrSerialization, err)
	}

	var proofBuf [3 * 32]byte
	if _, err := io.ReadFull(r, proofBuf[:]); err != nil {
		return public, nil, nil, fmt.Errorf("%w: reading proof: %v", ErrSerialization, err)
	}
	proof, err := zk.SchnorrProofFromBytes(proofBuf[:])
	if err != nil {
		return public, nil, nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	message, _, err := ReadBytesShort(r)
	if err != nil {
		return public, nil, nil, fmt.Errorf("%w: reading message: %v", ErrSerialization, err)
	}
	return public, proof, message, nil
}
