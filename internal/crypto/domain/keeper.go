package domain

import "context"

// Keeper abstracts the key-management service that wraps and unwraps the data key.
// *secrets.Keeper from gocloud.dev/secrets satisfies this interface, keeping the
// engine decoupled from any concrete KMS provider.
type Keeper interface {
	// Encrypt wraps plaintext key material under the KMS key.
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	// Decrypt unwraps previously wrapped key material.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}
