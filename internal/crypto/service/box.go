package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/plantwatch/privacy/internal/crypto/domain"
	apperrors "github.com/plantwatch/privacy/internal/errors"
)

// Box binds the process data key to an AEAD cipher and a keyed hash.
//
// It is the single cryptographic dependency of the personal-data store:
// EncryptValue/DecryptValue protect stored field values, KeyedHash backs the
// pseudonymization transforms. Encryption is non-deterministic (fresh nonce per
// call) so callers must decrypt-and-compare, never compare ciphertexts.
// KeyedHash is deterministic under a fixed data key.
//
// The hashing key is derived from the data key with HKDF-SHA256 so encryption
// and hashing never share key material directly.
type Box struct {
	cipher  AEAD
	hashKey []byte
}

// hashKeyInfo versions the HKDF derivation of the hashing key.
var hashKeyInfo = []byte("field-hashing-v1")

// NewBox creates a Box from a 32-byte data key and an AEAD algorithm.
// The key slice is not retained; the caller may zero it after the call.
func NewBox(key []byte, alg cryptoDomain.Algorithm) (*Box, error) {
	cipher, err := NewAEADManager().CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	hashKey := make([]byte, cryptoDomain.KeySize)
	kdf := hkdf.New(sha256.New, key, nil, hashKeyInfo)
	if _, err := io.ReadFull(kdf, hashKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive hashing key")
	}

	return &Box{cipher: cipher, hashKey: hashKey}, nil
}

// EncryptValue encrypts a field value and returns a self-contained ciphertext
// string (base64 of nonce||ciphertext). A fresh nonce is generated per call.
func (b *Box) EncryptValue(plaintext string) (string, error) {
	ciphertext, nonce, err := b.cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt value")
	}

	packed := make([]byte, 0, len(nonce)+len(ciphertext))
	packed = append(packed, nonce...)
	packed = append(packed, ciphertext...)
	return base64.StdEncoding.EncodeToString(packed), nil
}

// nonceSize is fixed at 12 bytes for both supported AEAD algorithms.
const nonceSize = 12

// DecryptValue reverses EncryptValue.
// Returns ErrDecryptionFailed if the ciphertext is malformed or was produced
// under a different key.
func (b *Box) DecryptValue(encoded string) (string, error) {
	packed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	if len(packed) <= nonceSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := b.cipher.Decrypt(packed[nonceSize:], packed[:nonceSize], nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// KeyedHash returns the hex-encoded HMAC-SHA256 digest of value under the
// derived hashing key. Deterministic for a fixed data key, one-way by
// construction; used by the pseudonymization transforms.
func (b *Box) KeyedHash(value string) string {
	mac := hmac.New(sha256.New, b.hashKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
