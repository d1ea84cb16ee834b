// Package blockchain serializes proofs and attestations into canonical bytes
// for storage in a byte-array field of an external ledger, and parses such
// bytes back. Decoded input is untrusted: structure is validated against a
// JSON schema before a record is returned.
package blockchain

import (
	"encoding/json"
	"fmt"

	"medproof/zkproof"
)

// SerializationError reports malformed bytes on decode
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to deserialize ledger record: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// EncodeProof produces the canonical byte encoding of a proof. The encoding
// round-trips losslessly: DecodeProof(EncodeProof(p)) equals p field for
// field, and the decoded proof still verifies.
func EncodeProof(p *zkproof.Proof) ([]byte, error) {
	return encode(p)
}

// EncodeAttestation produces the canonical byte encoding of an
// attestation-wrapped proof
func EncodeAttestation(a *zkproof.Attestation) ([]byte, error) {
	return encode(a)
}

func encode(record interface{}) ([]byte, error) {
	data, err := zkproof.CanonicalJSON(record)
	if err != nil {
		return nil, fmt.Errorf("failed to canonically encode record: %v", err)
	}
	return data, nil
}

// DecodeProof parses ledger bytes back into a proof
func DecodeProof(data []byte) (*zkproof.Proof, error) {
	if err := validate(data, proofSchema); err != nil {
		return nil, err
	}

	var proof zkproof.Proof
	if err := json.Unmarshal(data, &proof); err != nil {
		return nil, &SerializationError{Err: err}
	}

	return &proof, nil
}

// DecodeAttestation parses ledger bytes back into an attestation-wrapped proof
func DecodeAttestation(data []byte) (*zkproof.Attestation, error) {
	if err := validate(data, attestationSchema); err != nil {
		return nil, err
	}

	var attestation zkproof.Attestation
	if err := json.Unmarshal(data, &attestation); err != nil {
		return nil, &SerializationError{Err: err}
	}

	return &attestation, nil
}

// IsAttestation reports whether ledger bytes carry an attestation wrapper
// rather than a bare proof. Malformed bytes report false.
func IsAttestation(data []byte) bool {
	var probe struct {
		TEE *json.RawMessage `json:"tee_attestation"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.TEE != nil
}
