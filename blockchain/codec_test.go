package blockchain

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"medproof/shared"
	"medproof/zkproof"
)

func issueTestProof(t *testing.T) (*zkproof.Proof, string) {
	t.Helper()

	km, err := shared.LoadOrGenerateKeyMaterial(context.Background(), shared.KeyConfig{}, nil)
	if err != nil {
		t.Fatalf("Failed to generate key material: %v", err)
	}
	generator := zkproof.NewGenerator(km, "vision-model-v1", nil)

	commitment := zkproof.Commit([]byte("scan bytes"))
	proof, err := generator.Issue(commitment, zkproof.ResultRecord{"status": "Normal", "severity": "NORMAL"})
	if err != nil {
		t.Fatalf("Failed to issue proof: %v", err)
	}

	return proof, commitment
}

func TestProofRoundTrip(t *testing.T) {
	proof, commitment := issueTestProof(t)

	encoded, err := EncodeProof(proof)
	if err != nil {
		t.Fatalf("Failed to encode proof: %v", err)
	}

	decoded, err := DecodeProof(encoded)
	if err != nil {
		t.Fatalf("Failed to decode proof: %v", err)
	}

	t.Run("FieldForFieldEqual", func(t *testing.T) {
		if !reflect.DeepEqual(proof, decoded) {
			t.Errorf("Round trip changed the proof:\n before %+v\n after  %+v", proof, decoded)
		}
		if decoded.ProofType != proof.ProofType ||
			decoded.Commitment != proof.Commitment ||
			decoded.ResultHash != proof.ResultHash ||
			decoded.Signature != proof.Signature {
			t.Error("Core fields not byte-identical after round trip")
		}
	})

	t.Run("StillVerifies", func(t *testing.T) {
		if !zkproof.Verify(decoded, commitment) {
			t.Error("Decoded proof failed verification against original commitment")
		}
	})

	t.Run("EncodingIsCanonical", func(t *testing.T) {
		again, err := EncodeProof(decoded)
		if err != nil {
			t.Fatalf("Failed to re-encode proof: %v", err)
		}
		if string(encoded) != string(again) {
			t.Error("Re-encoding produced different bytes")
		}

		// Canonical JSON sorts keys
		var tree map[string]json.RawMessage
		if err := json.Unmarshal(encoded, &tree); err != nil {
			t.Fatalf("Encoded proof is not a JSON object: %v", err)
		}
	})
}

func TestAttestationRoundTrip(t *testing.T) {
	km, err := shared.LoadOrGenerateKeyMaterial(context.Background(), shared.KeyConfig{}, nil)
	if err != nil {
		t.Fatalf("Failed to generate key material: %v", err)
	}
	generator := zkproof.NewGenerator(km, "vision-model-v1", nil)

	attestation, err := generator.Attest(zkproof.ResultRecord{"status": "Normal"})
	if err != nil {
		t.Fatalf("Failed to attest: %v", err)
	}

	encoded, err := EncodeAttestation(attestation)
	if err != nil {
		t.Fatalf("Failed to encode attestation: %v", err)
	}

	decoded, err := DecodeAttestation(encoded)
	if err != nil {
		t.Fatalf("Failed to decode attestation: %v", err)
	}

	if !reflect.DeepEqual(attestation, decoded) {
		t.Errorf("Round trip changed the attestation:\n before %+v\n after  %+v", attestation, decoded)
	}
	if !zkproof.Verify(&decoded.Proof, attestation.Proof.Commitment) {
		t.Error("Decoded attestation's base proof failed verification")
	}

	t.Run("WrapperDetection", func(t *testing.T) {
		proofBytes, err := EncodeProof(&attestation.Proof)
		if err != nil {
			t.Fatalf("Failed to encode proof: %v", err)
		}

		if !IsAttestation(encoded) {
			t.Error("Attestation bytes not detected as attestation")
		}
		if IsAttestation(proofBytes) {
			t.Error("Bare proof bytes detected as attestation")
		}
		if IsAttestation([]byte("not json")) {
			t.Error("Garbage bytes detected as attestation")
		}
	})
}

func TestDecodeMalformedBytes(t *testing.T) {
	cases := map[string][]byte{
		"NotJSON":        []byte("vector<u8> garbage \x00\x01"),
		"Empty":          {},
		"JSONArray":      []byte(`[1,2,3]`),
		"MissingFields":  []byte(`{"proof_type":"zk_medical_analysis"}`),
		"WrongFieldType": []byte(`{"proof_type":1,"version":"1.0","commitment":"c","result_hash":"r","model_id":"m","timestamp":1,"nonce":"n","signature":"s","public_key":"p"}`),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeProof(data)
			if err == nil {
				t.Fatal("Expected decode error")
			}

			var serErr *SerializationError
			if !errors.As(err, &serErr) {
				t.Errorf("Expected SerializationError, got %T", err)
			}
		})
	}

	t.Run("ProofBytesAsAttestation", func(t *testing.T) {
		proof, _ := issueTestProof(t)
		encoded, err := EncodeProof(proof)
		if err != nil {
			t.Fatalf("Failed to encode proof: %v", err)
		}

		if _, err := DecodeAttestation(encoded); err == nil {
			t.Error("Expected error decoding bare proof bytes as attestation")
		}
	})
}

func TestDecodedProofTamperStillDetected(t *testing.T) {
	proof, commitment := issueTestProof(t)

	encoded, err := EncodeProof(proof)
	if err != nil {
		t.Fatalf("Failed to encode proof: %v", err)
	}

	// Structurally valid JSON with a tampered payload field decodes fine but
	// must fail verification
	var tree map[string]interface{}
	if err := json.Unmarshal(encoded, &tree); err != nil {
		t.Fatalf("Failed to unmarshal encoded proof: %v", err)
	}
	tree["model_id"] = "forged-model"

	tampered, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Failed to re-marshal tampered proof: %v", err)
	}

	decoded, err := DecodeProof(tampered)
	if err != nil {
		t.Fatalf("Tampered but well-formed bytes should decode: %v", err)
	}
	if zkproof.Verify(decoded, commitment) {
		t.Error("Tampered decoded proof passed verification")
	}
}
