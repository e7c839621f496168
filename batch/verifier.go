// Package batch aggregates heterogeneous proof collections and verifies
// them with randomized linear-combination batching for Schnorr proofs and
// cross-type parallel verification for the rest.
//
// Verifying n Schnorr proofs individually costs n double-scalar
// multiplications; the batch check replaces them with one multiscalar
// multiplication of size 2n plus n scalar multiplications, at a soundness
// loss bounded by 2^-128 (the width of the random coefficients).
package batch

import (
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/trustmesh/proofcore/hashchain"
	"github.com/trustmesh/proofcore/internal/parallel"
	"github.com/trustmesh/proofcore/logger"
	"github.com/trustmesh/proofcore/smt"
	"github.com/trustmesh/proofcore/zk"
)

type schnorrEntry struct {
	proof   zk.SchnorrProof
	public  bn254.G1Affine
	message []byte
}

// Verifier collects proofs and verifies them in one amortized pass. A
// verifier instance is single-writer: callers must serialize Add calls, or
// use one instance per goroutine and merge results.
type Verifier struct {
	schnorr  []schnorrEntry
	equality []zk.EqualityProof
	merkle   []smt.Proof

	workers    int
	noBatching bool
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithWorkers caps the number of goroutines used for parallel verification.
// Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(v *Verifier) {
		v.workers = n
	}
}

// WithoutBatching forces per-proof verification of Schnorr proofs instead
// of the aggregated equation. Results are identical; this exists for audits
// and for tests that pin down batch/individual equivalence.
func WithoutBatching() Option {
	return func(v *Verifier) {
		v.noBatching = true
	}
}

// NewVerifier returns an empty batch verifier.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AddSchnorrProof queues a Schnorr proof against its public point and
// message. The verifier owns copies of all inputs.
func (v *Verifier) AddSchnorrProof(proof *zk.SchnorrProof, public bn254.G1Affine, message []byte) {
	msg := make([]byte, len(message))
	copy(msg, message)
	v.schnorr = append(v.schnorr, schnorrEntry{proof: *proof, public: public, message: msg})
}

// AddEqualityProof queues a commitment-equality proof.
func (v *Verifier) AddEqualityProof(proof *zk.EqualityProof) {
	v.equality = append(v.equality, *proof)
}

// AddMerkleProof queues a sparse-tree proof. It is checked against its own
// embedded root and the membership claim it carries.
func (v *Verifier) AddMerkleProof(proof *smt.Proof) {
	cp := *proof
	cp.Siblings = append([]hashchain.Hash(nil), proof.Siblings...)
	if proof.Value != nil {
		val := *proof.Value
		cp.Value = &val
	}
	v.merkle = append(v.merkle, cp)
}

// Clear drops every queued proof.
func (v *Verifier) Clear() {
	v.schnorr = nil
	v.equality = nil
	v.merkle = nil
}

// VerifyAll verifies the three collections concurrently and reports
// per-proof results in insertion order. Verification failures are reported
// in the result, never as errors; the error return covers only
// environmental failures such as a broken random source.
func (v *Verifier) VerifyAll() (*Result, error) {
	start := time.Now()

	res := &Result{}
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		res.SchnorrResults, err = v.verifySchnorrBatch()
		return err
	})
	g.Go(func() error {
		res.EqualityResults = v.verifyEqualityBatch()
		return nil
	})
	g.Go(func() error {
		res.MerkleResults = v.verifyMerkleBatch()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.AllValid = allTrue(res.SchnorrResults) && allTrue(res.EqualityResults) && allTrue(res.MerkleResults)
	res.Elapsed = time.Since(start)

	log := logger.Logger()
	log.Debug().
		Int("schnorr", len(res.SchnorrResults)).
		Int("equality", len(res.EqualityResults)).
		Int("merkle", len(res.MerkleResults)).
		Bool("allValid", res.AllValid).
		Dur("took", res.Elapsed).
		Msg("batch verification done")

	return res, nil
}

// verifySchnorrBatch checks all queued Schnorr proofs. The fast path
// validates every Fiat-Shamir challenge sequentially, then checks the
// single aggregated equation
//
//	(sum z_i*s_i)*G == sum z_i*R_i + sum (z_i*c_i)*P_i
//
// with fresh random coefficients z_i. Any malformed input or an aggregate
// mismatch degrades to per-proof verification so one bad proof cannot hide
// the validity of the rest.
func (v *Verifier) verifySchnorrBatch() ([]bool, error) {
	n := len(v.schnorr)
	results := make([]bool, n)
	if n == 0 {
		return results, nil
	}
	// a single proof gains nothing from batching and skips the RNG cost
	if n == 1 {
		results[0] = v.schnorr[0].proof.Verify(v.schnorr[0].public, v.schnorr[0].message)
		return results, nil
	}
	if v.noBatching {
		v.verifySchnorrIndividually(results)
		return results, nil
	}

	// sequential pre-pass: the batch equation must never be evaluated on
	// unvalidated inputs
	commitments := make([]bn254.G1Affine, n)
	for i := range v.schnorr {
		e := &v.schnorr[i]
		if !e.proof.CheckChallenge(e.public, e.message) {
			log := logger.Logger()
			log.Debug().Int("index", i).Msg("schnorr batch: challenge mismatch, falling back")
			v.verifySchnorrIndividually(results)
			return results, nil
		}
		r, err := e.proof.DecompressCommitment()
		if err != nil {
			log := logger.Logger()
			log.Debug().Int("index", i).Msg("schnorr batch: bad commitment encoding, falling back")
			v.verifySchnorrIndividually(results)
			return results, nil
		}
		commitments[i] = r
	}

	// independent uniform coefficients make the linear combination
	// unforgeable; reusing them across batches would break that argument
	var sSum fr.Element
	points := make([]bn254.G1Affine, 0, 2*n)
	scalars := make([]fr.Element, 0, 2*n)
	for i := range v.schnorr {
		z, err := zk.WideRandomScalar()
		if err != nil {
			return nil, err
		}

		s := v.schnorr[i].proof.ResponseScalar()
		var zs fr.Element
		zs.Mul(&z, &s)
		sSum.Add(&sSum, &zs)

		c := v.schnorr[i].proof.ChallengeScalar()
		var zc fr.Element
		zc.Mul(&z, &c)

		points = append(points, commitments[i], v.schnorr[i].public)
		scalars = append(scalars, z, zc)
	}

	var rhsJac bn254.G1Jac
	if _, err := rhsJac.MultiExp(points, scalars, ecc.MultiExpConfig{NbTasks: v.workers}); err != nil {
		// structurally impossible with equal-length inputs; degrade anyway
		v.verifySchnorrIndividually(results)
		return results, nil
	}
	var rhs bn254.G1Affine
	rhs.FromJacobian(&rhsJac)

	var lhs bn254.G1Affine
	lhs.ScalarMultiplicationBase(sSum.BigInt(new(big.Int)))

	if lhs.Equal(&rhs) {
		for i := range results {
			results[i] = true
		}
		return results, nil
	}

	// localize the invalid proofs
	log := logger.Logger()
	log.Debug().Int("n", n).Msg("schnorr batch equation failed, verifying individually")
	v.verifySchnorrIndividually(results)
	return results, nil
}

func (v *Verifier) verifySchnorrIndividually(results []bool) {
	parallel.Execute(0, len(v.schnorr), func(start, end int) {
		for i := start; i < end; i++ {
			e := &v.schnorr[i]
			results[i] = e.proof.Verify(e.public, e.message)
		}
	}, v.workers)
}

// verifyEqualityBatch verifies each equality proof independently, in
// parallel. Equality proofs do not admit the Schnorr linear-combination
// trick as implemented here: the challenge binds a reconstructed point
// rather than a transmitted one.
func (v *Verifier) verifyEqualityBatch() []bool {
	results := make([]bool, len(v.equality))
	if len(v.equality) == 0 {
		return results
	}
	parallel.Execute(0, len(v.equality), func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = v.equality[i].Verify()
		}
	}, v.workers)
	return results
}

// verifyMerkleBatch verifies each sparse-tree proof independently, in
// parallel, against its embedded root and claim.
func (v *Verifier) verifyMerkleBatch() []bool {
	results := make([]bool, len(v.merkle))
	if len(v.merkle) == 0 {
		return results
	}
	parallel.Execute(0, len(v.merkle), func(start, end int) {
		for i := start; i < end; i++ {
			p := &v.merkle[i]
			if p.Membership() {
				results[i] = smt.VerifyMembership(p, p.Root)
			} else {
				results[i] = smt.VerifyNonMembership(p, p.Root)
			}
		}
	}, v.workers)
	return results
}

func allTrue(results []bool) bool {
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}
