package shared

import (
	"os"
	"strconv"
)

// Helper functions for environment variable handling
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// KeyConfig describes where the signing private key comes from. Sources are
// tried in order: inline PEM, key file, GCP Secret Manager. If none is
// configured (or all fail), an ephemeral key is generated.
type KeyConfig struct {
	PrivateKeyPEM  string // PEM text supplied directly (e.g. from env)
	PrivateKeyFile string // path to a PEM file
	GCPProjectID   string // GCP project holding the key secret
	GCPSecretID    string // Secret Manager secret id containing the PEM
}

// KeyConfigFromEnv builds a KeyConfig from environment variables
func KeyConfigFromEnv() KeyConfig {
	return KeyConfig{
		PrivateKeyPEM:  GetEnvOrDefault("MEDPROOF_PRIVATE_KEY", ""),
		PrivateKeyFile: GetEnvOrDefault("MEDPROOF_PRIVATE_KEY_FILE", ""),
		GCPProjectID:   GetEnvOrDefault("GCP_PROJECT_ID", ""),
		GCPSecretID:    GetEnvOrDefault("MEDPROOF_KEY_SECRET_ID", ""),
	}
}
