package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"medproof/blockchain"
	"medproof/shared"
	"medproof/zkproof"
)

func main() {
	fmt.Println("=== Analysis Proof Demo ===")
	fmt.Println()

	// Load .env if present; environment variables win
	_ = godotenv.Load()

	logger, err := shared.NewLoggerFromEnv("proofdemo")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	km, err := shared.InitDefaultKeyMaterial(context.Background(), shared.KeyConfigFromEnv(), logger)
	if err != nil {
		log.Fatalf("Failed to initialize key material: %v", err)
	}
	fmt.Printf("Signing key ready (address: %s, ephemeral: %v)\n", km.Address().Hex(), km.Ephemeral())
	fmt.Println()

	fmt.Println("Demo 1: Content Commitment")
	commitment := demoCommitment()
	fmt.Println()

	fmt.Println("Demo 2: Proof Issuance and Verification")
	proof := demoProof(km, logger, commitment)
	fmt.Println()

	fmt.Println("Demo 3: Ledger Round Trip")
	demoLedgerRoundTrip(proof, commitment)
	fmt.Println()

	fmt.Println("Demo 4: Simulated TEE Attestation")
	demoAttestation(km, logger)
}

func demoCommitment() string {
	content := bytes.Repeat([]byte("scan-data "), 360)

	commitment := zkproof.Commit(content)
	fmt.Printf("Committed %d content bytes -> %s\n", len(content), commitment)

	// Same content, fresh salt and time: a different commitment
	again := zkproof.Commit(content)
	fmt.Printf("Second commitment to identical content differs: %v\n", again != commitment)

	return commitment
}

func demoProof(km *shared.KeyMaterial, logger *shared.Logger, commitment string) *zkproof.Proof {
	generator := zkproof.NewGenerator(km, "vision-model-v1", logger)

	result := zkproof.ResultRecord{
		"status":     "ABNORMAL",
		"severity":   "HIGH",
		"confidence": 0.95,
		"findings":   map[string]interface{}{"opacity": "left lower lobe"},
	}

	proof, err := generator.Issue(commitment, result)
	if err != nil {
		log.Fatalf("Failed to issue proof: %v", err)
	}
	fmt.Printf("Issued proof (nonce: %s, result_hash: %s)\n", proof.Nonce, proof.ResultHash)

	verifier := zkproof.NewVerifier(logger)
	breakdown := verifier.VerifyDetailed(proof, commitment)

	pretty, _ := json.MarshalIndent(breakdown, "", "  ")
	fmt.Printf("Verification breakdown:\n%s\n", pretty)

	// Tamper with a payload field and watch verification fail
	tampered := *proof
	tampered.Timestamp++
	fmt.Printf("Verification after timestamp tamper: %v\n", verifier.Verify(&tampered, commitment))

	return proof
}

func demoLedgerRoundTrip(proof *zkproof.Proof, commitment string) {
	encoded, err := blockchain.EncodeProof(proof)
	if err != nil {
		log.Fatalf("Failed to encode proof: %v", err)
	}
	fmt.Printf("Encoded proof to %d ledger bytes\n", len(encoded))

	decoded, err := blockchain.DecodeProof(encoded)
	if err != nil {
		log.Fatalf("Failed to decode proof: %v", err)
	}
	fmt.Printf("Decoded proof still verifies: %v\n", zkproof.Verify(decoded, commitment))
}

func demoAttestation(km *shared.KeyMaterial, logger *shared.Logger) {
	generator := zkproof.NewGenerator(km, "vision-model-v1", logger)

	result := zkproof.ResultRecord{"status": "Normal", "severity": "NORMAL"}

	attestation, err := generator.Attest(result)
	if err != nil {
		log.Fatalf("Failed to attest: %v", err)
	}
	fmt.Printf("Enclave: %s (measurement %s)\n", attestation.TEE.EnclaveID, attestation.TEE.EnclaveMeasurement)

	verifier := zkproof.NewVerifier(logger)
	fmt.Printf("Base proof inside attestation verifies: %v\n",
		verifier.VerifyAttestation(attestation, attestation.Proof.Commitment))

	encoded, err := blockchain.EncodeAttestation(attestation)
	if err != nil {
		log.Fatalf("Failed to encode attestation: %v", err)
	}
	fmt.Printf("Attestation ledger bytes: %d (attestation wrapper detected: %v)\n",
		len(encoded), blockchain.IsAttestation(encoded))
}
