package zk

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Commit returns the Pedersen commitment value*G + blinding*H.
func Commit(value, blinding fr.Element) bn254.G1Affine {
	g, h := Generators()

	var vG, rH, c bn254.G1Affine
	var tmp big.Int
	vG.ScalarMultiplication(&g, value.BigInt(&tmp))
	rH.ScalarMultiplication(&h, blinding.BigInt(&tmp))
	c.Add(&vG, &rH)
	return c
}

// CommitBytes commits to arbitrary data by first reducing its SHA-256
// digest into the scalar field.
func CommitBytes(data []byte, blinding fr.Element) bn254.G1Affine {
	return Commit(MapToScalar(data), blinding)
}
