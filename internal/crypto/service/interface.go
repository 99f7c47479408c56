// Package service provides the cryptographic services backing the governance
// engine: AEAD ciphers for field encryption, the keyed hash used by
// pseudonymization, and the key source that loads the process data key.
package service

import (
	"context"

	cryptoDomain "github.com/plantwatch/privacy/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeySource defines the interface for obtaining the process data key.
type KeySource interface {
	// Load returns the 32-byte data key used for field encryption and keyed hashing.
	Load(ctx context.Context) ([]byte, error)
}

// KMSService defines the interface for opening key-management keepers.
type KMSService interface {
	// OpenKeeper opens a keeper for the configured KMS provider.
	// Returns an error if the KMS key URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.Keeper, error)
}
