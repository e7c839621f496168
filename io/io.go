// Package io offers versioned serialization envelopes for proofcore
// objects.
//
// Envelopes are CBOR (canonical encoding) prefixed with the module version;
// decoding rejects envelopes produced by a higher major version. Round-trip
// through an envelope reproduces an independently verifiable proof.
package io

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"

	proofcore "github.com/trustmesh/proofcore"
)

// ErrSerialization wraps every structural decoding failure: truncated
// input, malformed CBOR, or an incompatible envelope version.
var ErrSerialization = errors.New("io: serialization error")

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("io: building cbor enc mode: %v", err))
	}
}

// Write serializes v into w: the module version followed by the
// canonical-CBOR payload.
func Write(w io.Writer, v interface{}) error {
	enc := encMode.NewEncoder(w)
	if err := enc.Encode(proofcore.Version.String()); err != nil {
		return err
	}
	return enc.Encode(v)
}

// Read deserializes an envelope from r into `into` (a pointer). Envelopes
// written by a higher major version are rejected.
func Read(r io.Reader, into interface{}) error {
	dec := cbor.NewDecoder(r)

	var versionStr string
	if err := dec.Decode(&versionStr); err != nil {
		return fmt.Errorf("%w: reading version: %v", ErrSerialization, err)
	}
	version, err := semver.Parse(versionStr)
	if err != nil {
		return fmt.Errorf("%w: parsing version %q: %v", ErrSerialization, versionStr, err)
	}
	if version.Major > proofcore.Version.Major {
		return fmt.Errorf("%w: envelope version %s is newer than module version %s", ErrSerialization, version, proofcore.Version)
	}

	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("%w: decoding payload: %v", ErrSerialization, err)
	}
	return nil
}

// Marshal returns the envelope bytes for v.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes envelope bytes into `into` (a pointer).
func Unmarshal(data []byte, into interface{}) error {
	return Read(bytes.NewReader(data), into)
}
