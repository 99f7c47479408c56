package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/plantwatch/privacy/internal/crypto/domain"
)

// newBase64KeyURI builds a localsecrets keeper URI for tests.
func newBase64KeyURI(t *testing.T) string {
	t.Helper()

	kmsKey := make([]byte, 32)
	_, err := rand.Read(kmsKey)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(kmsKey)
}

func TestKMSKeySource_Load(t *testing.T) {
	ctx := context.Background()
	kms := NewKMSService()
	keyURI := newBase64KeyURI(t)

	t.Run("unwraps a wrapped data key", func(t *testing.T) {
		keeper, err := kms.OpenKeeper(ctx, keyURI)
		require.NoError(t, err)

		dataKey := make([]byte, 32)
		_, err = rand.Read(dataKey)
		require.NoError(t, err)

		wrapped, err := keeper.Encrypt(ctx, dataKey)
		require.NoError(t, err)

		source := NewKMSKeySource(kms, keyURI, base64.StdEncoding.EncodeToString(wrapped))
		loaded, err := source.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, dataKey, loaded)
	})

	t.Run("rejects malformed wrapped key", func(t *testing.T) {
		source := NewKMSKeySource(kms, keyURI, "not-base64!!")
		_, err := source.Load(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
	})

	t.Run("rejects invalid keeper URI", func(t *testing.T) {
		source := NewKMSKeySource(kms, "bogus://nope", "d3JhcHBlZA==")
		_, err := source.Load(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
	})

	t.Run("rejects wrong key size", func(t *testing.T) {
		keeper, err := kms.OpenKeeper(ctx, keyURI)
		require.NoError(t, err)

		wrapped, err := keeper.Encrypt(ctx, []byte("short"))
		require.NoError(t, err)

		source := NewKMSKeySource(kms, keyURI, base64.StdEncoding.EncodeToString(wrapped))
		_, err = source.Load(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestEphemeralKeySource_Load(t *testing.T) {
	ctx := context.Background()
	source := NewEphemeralKeySource(nil)

	key1, err := source.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, key1, cryptoDomain.KeySize)

	key2, err := source.Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}
