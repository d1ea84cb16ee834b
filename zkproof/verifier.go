package zkproof

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"medproof/shared"
)

// VerifyResult is the structured verification breakdown. Valid is true only
// when every check passed. SignerAddress is the Ethereum-style address
// recovered from the signature; callers wanting issuer authenticity must pin
// it out of band, since a proof embeds its own verification key.
type VerifyResult struct {
	Valid           bool   `json:"valid"`
	StructureValid  bool   `json:"structure_valid"`
	SignatureValid  bool   `json:"signature_valid"`
	CommitmentValid bool   `json:"commitment_valid"`
	SignerAddress   string `json:"signer_address,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// Verifier checks proofs for internal consistency and logs failure causes
// instead of propagating them.
type Verifier struct {
	log *shared.Logger
}

// NewVerifier creates a verifier that logs failure causes to the given logger
func NewVerifier(logger *shared.Logger) *Verifier {
	if logger == nil {
		logger = shared.NewNopLogger()
	}
	return &Verifier{log: logger}
}

// Verify reports whether the proof is internally consistent: the embedded
// signature covers the payload recomputed from the proof's own fields, and,
// if expectedCommitment is non-empty, the commitment matches it exactly.
// Verify is total over arbitrary untrusted input: it returns false on any
// malformed proof and never panics or returns an error.
func (v *Verifier) Verify(proof *Proof, expectedCommitment string) bool {
	return v.VerifyDetailed(proof, expectedCommitment).Valid
}

// VerifyDetailed is Verify with the per-check breakdown for diagnostics
func (v *Verifier) VerifyDetailed(proof *Proof, expectedCommitment string) VerifyResult {
	result := VerifyResult{}

	if proof == nil {
		return v.fail(result, "proof is nil")
	}

	if proof.Signature == "" || proof.PublicKey == "" {
		return v.fail(result, "signature or public key missing")
	}

	signature, err := base58.Decode(proof.Signature)
	if err != nil {
		return v.fail(result, "signature is not valid base58")
	}

	publicKeyBytes, err := base58.Decode(proof.PublicKey)
	if err != nil {
		return v.fail(result, "public key is not valid base58")
	}

	publicKey, err := crypto.UnmarshalPubkey(publicKeyBytes)
	if err != nil {
		return v.fail(result, "public key is not a valid secp256k1 point")
	}

	if len(signature) != 65 {
		return v.fail(result, "invalid signature length")
	}

	result.StructureValid = true

	// Recompute the signed payload strictly from the proof's own fields. Any
	// deviation in any payload field changes the digest and fails recovery.
	digest, err := PayloadDigest(proof)
	if err != nil {
		return v.fail(result, "payload not canonically encodable")
	}

	recoveredKey, err := crypto.SigToPub(digest, signature)
	if err != nil {
		return v.fail(result, "public key recovery failed")
	}

	expectedAddress := crypto.PubkeyToAddress(*publicKey)
	recoveredAddress := crypto.PubkeyToAddress(*recoveredKey)
	result.SignerAddress = recoveredAddress.Hex()

	if recoveredAddress != expectedAddress {
		return v.fail(result, "signature does not match embedded public key")
	}
	result.SignatureValid = true

	if expectedCommitment != "" && proof.Commitment != expectedCommitment {
		return v.fail(result, "commitment mismatch")
	}
	result.CommitmentValid = true

	result.Valid = true
	return result
}

// VerifyAttestation checks the base proof inside an attestation wrapper. The
// enclave metadata itself carries no independent cryptographic guarantee and
// is not checked beyond the wrapped proof.
func (v *Verifier) VerifyAttestation(att *Attestation, expectedCommitment string) bool {
	if att == nil {
		v.log.Warn("Proof verification failed", zap.String("reason", "attestation is nil"))
		return false
	}
	return v.Verify(&att.Proof, expectedCommitment)
}

func (v *Verifier) fail(result VerifyResult, reason string) VerifyResult {
	result.Reason = reason
	v.log.Warn("Proof verification failed", zap.String("reason", reason))
	return result
}

// Verify is a package-level convenience using a silent verifier
func Verify(proof *Proof, expectedCommitment string) bool {
	return NewVerifier(nil).Verify(proof, expectedCommitment)
}
