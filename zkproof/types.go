package zkproof

// Proof format constants
const (
	ProofType        = "zk_medical_analysis"
	ProofVersion     = "1.0"
	GeneratorName    = "medproof-zk-proof-system"
	TEEProofType     = "zk_medical_analysis_tee"
	TEEType          = "simulated-secure-enclave"
	TEEVersion       = "1.0"
	TEEProvider      = "medproof-tee-service"
	TEEEnvironment   = "trusted_execution_environment"
	enclaveIDPrefix      = "tee-"
	enclaveMeasureSuffix = "-enclave-v1"
)

// ResultRecord is a caller-supplied description of an analysis outcome
// (status, findings, severity, confidence, ...). The core treats it as an
// opaque key/value tree; it only needs to hash a canonical encoding of it.
type ResultRecord map[string]interface{}

// Proof asserts that an analysis of committed content produced a specific
// result, without disclosing the content. The signature covers the payload
// subset {proof_type, version, commitment, result_hash, model_id, timestamp,
// nonce}; metadata is informational and unsigned.
type Proof struct {
	ProofType  string            `json:"proof_type"`
	Version    string            `json:"version"`
	Commitment string            `json:"commitment"`
	ResultHash string            `json:"result_hash"`
	ModelID    string            `json:"model_id"`
	Timestamp  int64             `json:"timestamp"`
	Nonce      string            `json:"nonce"`
	Signature  string            `json:"signature"`
	PublicKey  string            `json:"public_key"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SecurityProperties describe the asserted enclave protections
type SecurityProperties struct {
	MemoryEncryption  bool `json:"memory_encryption"`
	CodeIntegrity     bool `json:"code_integrity"`
	RemoteAttestation bool `json:"remote_attestation"`
	SecureBoot        bool `json:"secure_boot"`
}

// EnclaveReport carries the simulated trusted-execution metadata layered on
// top of a base proof. None of these fields are independently verifiable:
// they are asserted metadata, signed only insofar as the base proof is. A
// real hardware attestation integration would replace this type without
// touching the Proof contract.
type EnclaveReport struct {
	TEEType              string             `json:"tee_type"`
	EnclaveID            string             `json:"enclave_id"`
	AttestationID        string             `json:"attestation_id"`
	AttestationVersion   string             `json:"attestation_version"`
	EnclaveMeasurement   string             `json:"enclave_measurement"`
	Attested             bool               `json:"attested"`
	AttestationTimestamp int64              `json:"attestation_timestamp"`
	AttestationProvider  string             `json:"attestation_provider"`
	SecurityProperties   SecurityProperties `json:"security_properties"`
}

// Attestation wraps an unmodified base Proof with enclave metadata. The base
// proof verifies on its own; the wrapper adds no cryptographic guarantee.
type Attestation struct {
	ProofType   string        `json:"proof_type"`
	Proof       Proof         `json:"proof"`
	TEE         EnclaveReport `json:"tee_attestation"`
	Environment string        `json:"computation_environment"`
}
