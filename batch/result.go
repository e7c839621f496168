package batch

import (
	"time"
)

// Result is a read-only snapshot of one VerifyAll call. Each boolean vector
// is index-aligned with the insertion order of the matching Add calls.
type Result struct {
	SchnorrResults  []bool        `json:"schnorr_results"`
	EqualityResults []bool        `json:"equality_results"`
	MerkleResults   []bool        `json:"merkle_results"`
	AllValid        bool          `json:"all_valid"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// Total returns the number of proofs verified.
func (r *Result) Total() int {
	return len(r.SchnorrResults) + len(r.EqualityResults) + len(r.MerkleResults)
}

// ValidCount returns how many proofs verified successfully.
func (r *Result) ValidCount() int {
	count := 0
	for _, vec := range [][]bool{r.SchnorrResults, r.EqualityResults, r.MerkleResults} {
		for _, ok := range vec {
			if ok {
				count++
			}
		}
	}
	return count
}
