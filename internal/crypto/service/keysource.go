package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"

	cryptoDomain "github.com/plantwatch/privacy/internal/crypto/domain"
	apperrors "github.com/plantwatch/privacy/internal/errors"
)

// kmsKeySource loads the data key by unwrapping a KMS-wrapped key.
//
// The wrapped key is produced once (e.g. by the create-data-key command) and
// carried in configuration, so the same data key survives process restarts and
// previously encrypted values stay readable.
type kmsKeySource struct {
	kms        KMSService
	keyURI     string
	wrappedKey string
}

// NewKMSKeySource creates a KeySource that unwraps the base64-encoded wrapped
// data key through the keeper identified by keyURI.
func NewKMSKeySource(kms KMSService, keyURI, wrappedKey string) KeySource {
	return &kmsKeySource{kms: kms, keyURI: keyURI, wrappedKey: wrappedKey}
}

// Load unwraps and returns the data key.
// Returns ErrKeyUnavailable if the keeper cannot be opened, the wrapped key is
// malformed, or the unwrapped key has the wrong size.
func (s *kmsKeySource) Load(ctx context.Context) ([]byte, error) {
	keeper, err := s.kms.OpenKeeper(ctx, s.keyURI)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyUnavailable, err.Error())
	}

	wrapped, err := base64.StdEncoding.DecodeString(s.wrappedKey)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyUnavailable, "wrapped data key is not valid base64")
	}

	key, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyUnavailable, err.Error())
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	return key, nil
}

// ephemeralKeySource generates a fresh random data key for the process lifetime.
//
// Values encrypted under an ephemeral key become unreadable after a restart,
// so this source is only suitable for development and tests.
type ephemeralKeySource struct {
	logger *slog.Logger
}

// NewEphemeralKeySource creates a KeySource that generates a random key per process.
func NewEphemeralKeySource(logger *slog.Logger) KeySource {
	return &ephemeralKeySource{logger: logger}
}

// Load generates and returns a fresh 32-byte random key.
func (s *ephemeralKeySource) Load(_ context.Context) ([]byte, error) {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyUnavailable, err.Error())
	}

	if s.logger != nil {
		s.logger.Warn("using ephemeral data key; encrypted values will not survive a restart")
	}

	return key, nil
}
