package zkproof

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"medproof/shared"
)

// Generator issues signed analysis proofs for a single model identity. It is
// safe for concurrent use; all state is read-only after construction.
type Generator struct {
	km         *shared.KeyMaterial
	modelID    string
	instanceID string
	metadata   map[string]string
	log        *shared.Logger
}

// NewGenerator creates a proof generator bound to the given key material and
// model identity
func NewGenerator(km *shared.KeyMaterial, modelID string, logger *shared.Logger) *Generator {
	if logger == nil {
		logger = shared.NewNopLogger()
	}

	instanceID := uuid.NewString()

	return &Generator{
		km:         km,
		modelID:    modelID,
		instanceID: instanceID,
		metadata: map[string]string{
			"proof_type":  ProofType,
			"version":     ProofVersion,
			"generator":   GeneratorName,
			"model_id":    modelID,
			"instance_id": instanceID,
		},
		log: logger,
	}
}

// Issue binds a content commitment and an analysis result into a signed proof
func (g *Generator) Issue(commitment string, result ResultRecord) (*Proof, error) {
	return g.IssueAt(commitment, result, time.Now())
}

// IssueAt is Issue with an explicit issuance time
func (g *Generator) IssueAt(commitment string, result ResultRecord, at time.Time) (*Proof, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return nil, &ProofGenerationError{Op: "nonce", Err: err}
	}

	resultHash, err := HashResult(result)
	if err != nil {
		return nil, &ProofGenerationError{Op: "encode result record", Err: err}
	}

	proof := &Proof{
		ProofType:  ProofType,
		Version:    ProofVersion,
		Commitment: commitment,
		ResultHash: resultHash,
		ModelID:    g.modelID,
		Timestamp:  at.Unix(),
		Nonce:      hex.EncodeToString(nonce),
		Metadata:   g.metadata,
	}

	digest, err := PayloadDigest(proof)
	if err != nil {
		return nil, &ProofGenerationError{Op: "encode payload", Err: err}
	}

	signature, err := g.km.Sign(digest)
	if err != nil {
		// A signing failure implies corrupted key material; the process
		// cannot issue proofs anymore and retrying will not help.
		g.log.WithCryptoOp("sign").Error("Signing failed, key material unusable", zap.Error(err))
		return nil, &ProofGenerationError{Op: "sign payload", Err: err, Fatal: true}
	}

	proof.Signature = base58.Encode(signature)
	proof.PublicKey = base58.Encode(g.km.ExportPublicKey())

	g.log.WithModelID(g.modelID).Debug("Issued analysis proof",
		zap.String("commitment", commitment),
		zap.String("result_hash", resultHash),
		zap.Int64("timestamp", proof.Timestamp))

	return proof, nil
}

// HashResult computes the deterministic digest of a result record: SHA-256
// over its canonical JSON encoding.
func HashResult(result ResultRecord) (string, error) {
	encoded, err := CanonicalJSON(result)
	if err != nil {
		return "", fmt.Errorf("failed to canonically encode result record: %v", err)
	}

	digest := sha256.Sum256(encoded)
	return hex.EncodeToString(digest[:]), nil
}

// PayloadDigest computes the digest that is signed: SHA-256 over the
// canonical JSON encoding of the payload subset. Verification recomputes
// exactly this, so any change to a payload field invalidates the signature.
func PayloadDigest(p *Proof) ([]byte, error) {
	payload := map[string]interface{}{
		"proof_type":  p.ProofType,
		"version":     p.Version,
		"commitment":  p.Commitment,
		"result_hash": p.ResultHash,
		"model_id":    p.ModelID,
		"timestamp":   p.Timestamp,
		"nonce":       p.Nonce,
	}

	encoded, err := CanonicalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to canonically encode payload: %v", err)
	}

	digest := sha256.Sum256(encoded)
	return digest[:], nil
}
