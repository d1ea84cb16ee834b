package zkproof

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Attest issues a proof wrapped with simulated trusted-execution metadata.
// No original content commitment is threaded through at this layer, so the
// commitment is derived over the canonical encoding of the result record
// itself. The returned attestation's cryptographic guarantee is exactly the
// base proof's payload-hash-signature integrity; the enclave fields are
// unauthenticated assertions layered on top.
func (g *Generator) Attest(result ResultRecord) (*Attestation, error) {
	encoded, err := CanonicalJSON(result)
	if err != nil {
		return nil, &ProofGenerationError{Op: "encode result record", Err: err}
	}

	commitment := Commit(encoded)

	proof, err := g.Issue(commitment, result)
	if err != nil {
		return nil, err
	}

	attestation := &Attestation{
		ProofType:   TEEProofType,
		Proof:       *proof,
		TEE:         g.enclaveReport(),
		Environment: TEEEnvironment,
	}

	g.log.WithModelID(g.modelID).Debug("Issued attested proof",
		zap.String("enclave_id", attestation.TEE.EnclaveID),
		zap.String("commitment", commitment))

	return attestation, nil
}

// enclaveReport builds the simulated enclave metadata for this generator's
// model. EnclaveID and the measurement are deterministic per model; a real
// attestation integration would source both from the hardware report.
func (g *Generator) enclaveReport() EnclaveReport {
	return EnclaveReport{
		TEEType:              TEEType,
		EnclaveID:            enclaveIDPrefix + g.modelID,
		AttestationID:        uuid.NewString(),
		AttestationVersion:   TEEVersion,
		EnclaveMeasurement:   EnclaveMeasurement(g.modelID),
		Attested:             true,
		AttestationTimestamp: time.Now().Unix(),
		AttestationProvider:  TEEProvider,
		SecurityProperties: SecurityProperties{
			MemoryEncryption:  true,
			CodeIntegrity:     true,
			RemoteAttestation: true,
			SecureBoot:        true,
		},
	}
}

// EnclaveMeasurement returns the deterministic measurement for a model: the
// SHA-256 digest of its fixed enclave identifier string.
func EnclaveMeasurement(modelID string) string {
	digest := sha256.Sum256([]byte(modelID + enclaveMeasureSuffix))
	return hex.EncodeToString(digest[:])
}
