package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantwatch/privacy/internal/consent/usecase"
)

// runConsentRepositorySuite exercises a SQL-backed consent repository.
func runConsentRepositorySuite(t *testing.T, repo usecase.Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("create and list by subject", func(t *testing.T) {
		granted := newTestConsent("suite-subject-1", "analytics", true)
		refused := newTestConsent("suite-subject-1", "marketing", false)
		refused.CreatedAt = granted.CreatedAt.Add(time.Second)
		require.NoError(t, repo.Create(ctx, granted))
		require.NoError(t, repo.Create(ctx, refused))

		consents, err := repo.ListBySubject(ctx, "suite-subject-1")
		require.NoError(t, err)
		require.Len(t, consents, 2)
		assert.Equal(t, "analytics", consents[0].Purpose)
		assert.True(t, consents[0].IsActive)
		assert.Equal(t, []string{"identifiable"}, consents[0].DataCategories)
		assert.Equal(t, "marketing", consents[1].Purpose)
		assert.False(t, consents[1].IsActive)
		assert.Nil(t, consents[1].WithdrawnAt)
	})

	t.Run("withdraw all and counts", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newTestConsent("suite-subject-2", "analytics", true)))
		require.NoError(t, repo.Create(ctx, newTestConsent("suite-subject-2", "research", true)))

		count, err := repo.CountActiveBySubject(ctx, "suite-subject-2")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		total, err := repo.CountActive(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(2))

		withdrawn, err := repo.WithdrawAll(ctx, "suite-subject-2", time.Now().UTC())
		require.NoError(t, err)
		assert.Equal(t, int64(2), withdrawn)

		count, err = repo.CountActiveBySubject(ctx, "suite-subject-2")
		require.NoError(t, err)
		assert.Zero(t, count)

		consents, err := repo.ListBySubject(ctx, "suite-subject-2")
		require.NoError(t, err)
		for _, consent := range consents {
			assert.False(t, consent.IsActive)
			assert.NotNil(t, consent.WithdrawnAt)
		}

		withdrawn, err = repo.WithdrawAll(ctx, "suite-subject-2", time.Now().UTC())
		require.NoError(t, err)
		assert.Zero(t, withdrawn)
	})
}
