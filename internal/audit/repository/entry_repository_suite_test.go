package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantwatch/privacy/internal/audit/domain"
	"github.com/plantwatch/privacy/internal/audit/usecase"
)

// runEntryRepositorySuite exercises a SQL-backed audit repository.
func runEntryRepositorySuite(t *testing.T, repo usecase.Repository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("create and list", func(t *testing.T) {
		older := newTestEntry(domain.ActionDataRecorded, "suite-subject-1", now.Add(-time.Hour))
		newer := newTestEntry(domain.ActionDataErasure, "suite-subject-1", now)
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, domain.ActionDataErasure, entries[0].Action)
		assert.Equal(t, domain.ActionDataRecorded, entries[1].Action)
		assert.Equal(t, "suite-subject-1", entries[0].DataSubjectID)
		assert.NotNil(t, entries[0].Details)
	})

	t.Run("create stores nil details as null", func(t *testing.T) {
		entry := newTestEntry(domain.ActionRetentionSweep, "", now.Add(time.Minute))
		entry.Details = nil
		require.NoError(t, repo.Create(ctx, entry))

		entries, err := repo.List(ctx, 0, 1, nil, nil)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].Details)
	})

	t.Run("list filters by created-at boundaries", func(t *testing.T) {
		from := now.Add(-30 * time.Minute)
		entries, err := repo.List(ctx, 0, 10, &from, &now)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.False(t, entry.CreatedAt.Before(from.Add(-time.Second)))
			assert.False(t, entry.CreatedAt.After(now.Add(time.Second)))
		}
	})

	t.Run("delete older than", func(t *testing.T) {
		cutoff := now.Add(-30 * time.Minute)

		wouldRemove, err := repo.DeleteOlderThan(ctx, cutoff, true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, wouldRemove, int64(1))

		removed, err := repo.DeleteOlderThan(ctx, cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, wouldRemove, removed)

		removed, err = repo.DeleteOlderThan(ctx, cutoff, false)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}
