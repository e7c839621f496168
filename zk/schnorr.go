package zk

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// SchnorrProof is a Fiat-Shamir proof of knowledge of the discrete log x of
// a public point P = xG. Wire shape: three 32-byte fields.
type SchnorrProof struct {
	// Commitment is the compressed ephemeral point R = kG.
	Commitment Bytes32 `json:"commitment"`
	// Challenge is SHA256(R || P || message).
	Challenge Bytes32 `json:"challenge"`
	// Response is the big-endian scalar s = k + c*x.
	Response Bytes32 `json:"response"`
}

// ProveKnowledge proves knowledge of secret with public = secret*G. The
// ephemeral scalar is sampled fresh from crypto/rand per proof; both it and
// the local copy of the secret are zeroed before returning.
func ProveKnowledge(secret fr.Element, public bn254.G1Affine, message []byte) (*SchnorrProof, error) {
	g, _ := Generators()

	k, err := RandomScalar()
	if err != nil {
		return nil, err
	}
	defer wipe(&k)
	defer wipe(&secret)

	var tmp big.Int
	var r bn254.G1Affine
	r.ScalarMultiplication(&g, k.BigInt(&tmp))

	rBytes := r.Bytes()
	pBytes := public.Bytes()
	c := challenge(rBytes[:], pBytes[:], message)

	var s fr.Element
	cs := challengeScalar(c)
	s.Mul(&cs, &secret)
	s.Add(&s, &k)

	return &SchnorrProof{
		Commitment: Bytes32(rBytes),
		Challenge:  c,
		Response:   Bytes32(s.Bytes()),
	}, nil
}

// Verify checks the proof against a public point and message. It recomputes
// the Fiat-Shamir challenge, rejecting on mismatch (this binds the proof to
// the exact statement and prevents replay against another key or message),
// then checks the Schnorr equation sG == R + cP. Malformed encodings
// verify false; this never panics and never returns an error.
func (p *SchnorrProof) Verify(public bn254.G1Affine, message []byte) bool {
	if !p.CheckChallenge(public, message) {
		return false
	}
	r, err := p.DecompressCommitment()
	if err != nil {
		return false
	}

	s := p.ResponseScalar()
	c := p.ChallengeScalar()

	var tmp big.Int
	var left, cP, right bn254.G1Affine
	left.ScalarMultiplicationBase(s.BigInt(&tmp))
	cP.ScalarMultiplication(&public, c.BigInt(&tmp))
	right.Add(&r, &cP)

	return left.Equal(&right)
}

// CheckChallenge recomputes the Fiat-Shamir challenge for (public, message)
// and compares it with the stored one.
func (p *SchnorrProof) CheckChallenge(public bn254.G1Affine, message []byte) bool {
	pBytes := public.Bytes()
	return challenge(p.Commitment[:], pBytes[:], message) == p.Challenge
}

// DecompressCommitment decodes the stored ephemeral point.
func (p *SchnorrProof) DecompressCommitment() (bn254.G1Affine, error) {
	var r bn254.G1Affine
	if _, err := r.SetBytes(p.Commitment[:]); err != nil {
		return bn254.G1Affine{}, fmt.Errorf("%w: commitment: %v", ErrInvalidProof, err)
	}
	return r, nil
}

// ChallengeScalar returns the challenge reduced into the scalar field.
func (p *SchnorrProof) ChallengeScalar() fr.Element {
	return challengeScalar(p.Challenge)
}

// ResponseScalar returns the response reduced into the scalar field.
func (p *SchnorrProof) ResponseScalar() fr.Element {
	var s fr.Element
	s.SetBytes(p.Response[:])
	return s
}

// Bytes returns the 96-byte wire form: commitment || challenge || response.
func (p *SchnorrProof) Bytes() []byte {
	out := make([]byte, 0, 3*32)
	out = append(out, p.Commitment[:]...)
	out = append(out, p.Challenge[:]...)
	out = append(out, p.Response[:]...)
	return out
}

// SchnorrProofFromBytes parses the 96-byte wire form and checks that the
// commitment decompresses to a group element.
func SchnorrProofFromBytes(data []byte) (*SchnorrProof, error) {
	if len(data) != 3*32 {
		return nil, fmt.Errorf("%w: want 96 bytes, got %d", ErrInvalidProof, len(data))
	}
	var p SchnorrProof
	copy(p.Commitment[:], data[:32])
	copy(p.Challenge[:], data[32:64])
	copy(p.Response[:], data[64:])

	if _, err := p.DecompressCommitment(); err != nil {
		return nil, err
	}
	return &p, nil
}
