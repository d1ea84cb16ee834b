package shared

import (
	"context"
	"crypto/ecdsa"
	"encoding/pem"
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// PEM block type for secp256k1 private keys. Go's x509 package cannot express
// secp256k1 SEC1 keys, so the block body is the raw 32-byte scalar.
const secp256k1PEMType = "SECP256K1 PRIVATE KEY"

// KeyMaterial holds the process signing keypair. The private key lives only
// in memory; this package never writes it to disk. A single instance is safe
// for concurrent use: signing reads the private exponent and per-call
// randomness only.
type KeyMaterial struct {
	privateKey *ecdsa.PrivateKey
	publicKey  *ecdsa.PublicKey
	ephemeral  bool
}

// LoadOrGenerateKeyMaterial imports a PEM-encoded private key from the
// configured source, or falls back to generating a fresh ephemeral keypair.
// The fallback is a logged degradation, not an error: proofs signed with an
// ephemeral key are not cross-verifiable across process restarts.
func LoadOrGenerateKeyMaterial(ctx context.Context, cfg KeyConfig, logger *Logger) (*KeyMaterial, error) {
	if logger == nil {
		logger = NewNopLogger()
	}

	if pemData, source := resolvePrivateKeyPEM(ctx, cfg, logger); pemData != nil {
		km, err := ImportPrivateKeyPEM(pemData)
		if err == nil {
			logger.Info("Loaded signing key",
				zap.String("source", source),
				zap.String("address", km.Address().Hex()))
			return km, nil
		}
		logger.Warn("Failed to import configured signing key, generating ephemeral key",
			zap.String("source", source),
			zap.Error(err))
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key pair: %v", err)
	}

	km := &KeyMaterial{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		ephemeral:  true,
	}

	logger.Security("Using ephemeral signing key: proofs will not be cross-verifiable after restart",
		zap.String("address", km.Address().Hex()))

	return km, nil
}

// resolvePrivateKeyPEM tries each configured key source in order and returns
// the first PEM payload found, along with the source name for logging.
func resolvePrivateKeyPEM(ctx context.Context, cfg KeyConfig, logger *Logger) ([]byte, string) {
	if cfg.PrivateKeyPEM != "" {
		return []byte(cfg.PrivateKeyPEM), "inline"
	}

	if cfg.PrivateKeyFile != "" {
		data, err := os.ReadFile(cfg.PrivateKeyFile)
		if err == nil {
			return data, "file"
		}
		logger.Warn("Failed to read signing key file",
			zap.String("path", cfg.PrivateKeyFile),
			zap.Error(err))
	}

	if cfg.GCPProjectID != "" && cfg.GCPSecretID != "" {
		data, err := loadKeyFromSecretManager(ctx, cfg.GCPProjectID, cfg.GCPSecretID)
		if err == nil {
			return data, "gcp-secret-manager"
		}
		logger.Warn("Failed to load signing key from Secret Manager",
			zap.String("secret_id", cfg.GCPSecretID),
			zap.Error(err))
	}

	return nil, ""
}

// ImportPrivateKeyPEM parses a PEM-armored secp256k1 private key
func ImportPrivateKeyPEM(pemData []byte) (*KeyMaterial, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in key data")
	}
	if block.Type != secp256k1PEMType {
		return nil, fmt.Errorf("unexpected PEM block type: %q", block.Type)
	}

	privateKey, err := crypto.ToECDSA(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse secp256k1 private key: %v", err)
	}

	return &KeyMaterial{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
	}, nil
}

// ExportPrivateKeyPEM returns the PEM encoding of the private key so an
// operator can persist an ephemeral key and promote it to a configured one.
func (km *KeyMaterial) ExportPrivateKeyPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  secp256k1PEMType,
		Bytes: crypto.FromECDSA(km.privateKey),
	})
}

// Sign signs a 32-byte digest and returns a 65-byte signature with recovery id
func (km *KeyMaterial) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("invalid digest length: expected 32 bytes, got %d", len(digest))
	}

	signature, err := crypto.Sign(digest, km.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %v", err)
	}

	return signature, nil
}

// ExportPublicKey returns the 65-byte uncompressed public key
func (km *KeyMaterial) ExportPublicKey() []byte {
	return crypto.FromECDSAPub(km.publicKey)
}

// PublicKey returns the verification key
func (km *KeyMaterial) PublicKey() *ecdsa.PublicKey {
	return km.publicKey
}

// Address returns the Ethereum-style address for this keypair
func (km *KeyMaterial) Address() common.Address {
	return crypto.PubkeyToAddress(*km.publicKey)
}

// Ephemeral reports whether the key was generated at startup rather than
// loaded from a configured source
func (km *KeyMaterial) Ephemeral() bool {
	return km.ephemeral
}

// Process-wide key material handle. Created once at startup via
// InitDefaultKeyMaterial; ReinitDefaultKeyMaterial is the explicit
// re-initialization entry point for future key rotation.
var (
	defaultKeyMaterial *KeyMaterial
	defaultKeyMutex    sync.RWMutex
)

// InitDefaultKeyMaterial initializes the process-wide key material. Calling
// it twice is an error; use ReinitDefaultKeyMaterial to rotate.
func InitDefaultKeyMaterial(ctx context.Context, cfg KeyConfig, logger *Logger) (*KeyMaterial, error) {
	defaultKeyMutex.Lock()
	defer defaultKeyMutex.Unlock()

	if defaultKeyMaterial != nil {
		return nil, fmt.Errorf("default key material already initialized")
	}

	km, err := LoadOrGenerateKeyMaterial(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	defaultKeyMaterial = km
	return km, nil
}

// ReinitDefaultKeyMaterial replaces the process-wide key material. Proofs
// signed before the swap remain verifiable against their embedded public key.
func ReinitDefaultKeyMaterial(ctx context.Context, cfg KeyConfig, logger *Logger) (*KeyMaterial, error) {
	km, err := LoadOrGenerateKeyMaterial(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	defaultKeyMutex.Lock()
	defaultKeyMaterial = km
	defaultKeyMutex.Unlock()

	return km, nil
}

// DefaultKeyMaterial returns the process-wide key material. NEVER panics -
// returns an error if InitDefaultKeyMaterial has not run.
func DefaultKeyMaterial() (*KeyMaterial, error) {
	defaultKeyMutex.RLock()
	defer defaultKeyMutex.RUnlock()

	if defaultKeyMaterial == nil {
		return nil, fmt.Errorf("key material not initialized")
	}

	return defaultKeyMaterial, nil
}
