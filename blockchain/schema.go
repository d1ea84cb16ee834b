package blockchain

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const proofSchemaJSON = `{
	"type": "object",
	"required": ["proof_type", "version", "commitment", "result_hash", "model_id", "timestamp", "nonce", "signature", "public_key"],
	"properties": {
		"proof_type":  {"type": "string"},
		"version":     {"type": "string"},
		"commitment":  {"type": "string"},
		"result_hash": {"type": "string"},
		"model_id":    {"type": "string"},
		"timestamp":   {"type": "integer"},
		"nonce":       {"type": "string"},
		"signature":   {"type": "string"},
		"public_key":  {"type": "string"},
		"metadata":    {"type": "object"}
	}
}`

const attestationSchemaJSON = `{
	"type": "object",
	"required": ["proof_type", "proof", "tee_attestation", "computation_environment"],
	"properties": {
		"proof_type": {"type": "string"},
		"proof": ` + proofSchemaJSON + `,
		"tee_attestation": {
			"type": "object",
			"required": ["tee_type", "enclave_id", "enclave_measurement", "attested", "attestation_timestamp", "attestation_provider", "security_properties"],
			"properties": {
				"tee_type":              {"type": "string"},
				"enclave_id":            {"type": "string"},
				"attestation_id":        {"type": "string"},
				"attestation_version":   {"type": "string"},
				"enclave_measurement":   {"type": "string"},
				"attested":              {"type": "boolean"},
				"attestation_timestamp": {"type": "integer"},
				"attestation_provider":  {"type": "string"},
				"security_properties":   {"type": "object"}
			}
		},
		"computation_environment": {"type": "string"}
	}
}`

var (
	proofSchema       = mustCompileSchema(proofSchemaJSON)
	attestationSchema = mustCompileSchema(attestationSchemaJSON)
)

func mustCompileSchema(schemaJSON string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid ledger record schema: %v", err))
	}
	return schema
}

// validate checks untrusted ledger bytes against a record schema
func validate(data []byte, schema *gojsonschema.Schema) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &SerializationError{Err: err}
	}

	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return &SerializationError{Err: fmt.Errorf("invalid record structure: %s", errs[0].String())}
		}
		return &SerializationError{Err: fmt.Errorf("invalid record structure")}
	}

	return nil
}
