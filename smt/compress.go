package smt

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"

	"github.com/trustmesh/proofcore/hashchain"
)

// CompressedProof is the compact wire form of a Proof. Almost every sibling
// in a sparse tree with few keys is a per-level default hash; the bitmap
// marks the non-default levels (leaf-first) and Siblings carries only those.
type CompressedProof struct {
	Key      hashchain.Hash   `json:"key"`
	Value    *hashchain.Hash  `json:"value,omitempty"`
	Height   int              `json:"height"`
	Bitmap   []byte           `json:"bitmap"`
	Siblings []hashchain.Hash `json:"siblings"`
	Root     hashchain.Hash   `json:"root"`
}

// Compress strips default siblings out of the proof.
func (p *Proof) Compress() (*CompressedProof, error) {
	height := len(p.Siblings)
	defaults := defaultHashes(height)

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	kept := make([]hashchain.Hash, 0, 8)
	for level, sibling := range p.Siblings {
		nonDefault := sibling != defaults[level]
		if err := w.WriteBool(nonDefault); err != nil {
			return nil, err
		}
		if nonDefault {
			kept = append(kept, sibling)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	value := p.Value
	if value != nil {
		v := *value
		value = &v
	}
	return &CompressedProof{
		Key:      p.Key,
		Value:    value,
		Height:   height,
		Bitmap:   buf.Bytes(),
		Siblings: kept,
		Root:     p.Root,
	}, nil
}

// Decompress restores the full sibling path. It fails with ErrInvalidProof
// when the bitmap and sibling count disagree.
func (cp *CompressedProof) Decompress() (*Proof, error) {
	if cp.Height <= 0 {
		return nil, fmt.Errorf("%w: non-positive height %d", ErrInvalidProof, cp.Height)
	}
	if len(cp.Bitmap) != (cp.Height+7)/8 {
		return nil, fmt.Errorf("%w: bitmap length %d for height %d", ErrInvalidProof, len(cp.Bitmap), cp.Height)
	}

	defaults := defaultHashes(cp.Height)
	r := bitio.NewReader(bytes.NewReader(cp.Bitmap))

	siblings := make([]hashchain.Hash, cp.Height)
	next := 0
	for level := 0; level < cp.Height; level++ {
		nonDefault, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated bitmap", ErrInvalidProof)
		}
		if nonDefault {
			if next >= len(cp.Siblings) {
				return nil, fmt.Errorf("%w: bitmap claims more siblings than provided", ErrInvalidProof)
			}
			siblings[level] = cp.Siblings[next]
			next++
		} else {
			siblings[level] = defaults[level]
		}
	}
	if next != len(cp.Siblings) {
		return nil, fmt.Errorf("%w: %d unused siblings", ErrInvalidProof, len(cp.Siblings)-next)
	}

	value := cp.Value
	if value != nil {
		v := *value
		value = &v
	}
	return &Proof{
		Key:      cp.Key,
		Value:    value,
		Siblings: siblings,
		Root:     cp.Root,
	}, nil
}
