package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/plantwatch/privacy/internal/errors"
	"github.com/plantwatch/privacy/internal/personaldata/domain"
	"github.com/plantwatch/privacy/internal/personaldata/usecase"
)

// runRecordRepositorySuite exercises a SQL-backed Repository implementation.
// Both database backends must satisfy the same behavior.
func runRecordRepositorySuite(t *testing.T, repo usecase.Repository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("create and get by id", func(t *testing.T) {
		record := newTestRecord("suite-subject-1", "email", domain.CategoryIdentifiable)
		record.CreatedAt = now
		record.ScheduledDeletionAt = now.AddDate(0, 0, record.RetentionPeriodDays)
		require.NoError(t, repo.Create(ctx, record))

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.DataSubjectID, got.DataSubjectID)
		assert.Equal(t, record.Category, got.Category)
		assert.Equal(t, record.LegalBasis, got.LegalBasis)
		assert.Equal(t, record.EncryptedValue, got.EncryptedValue)
		assert.WithinDuration(t, record.CreatedAt, got.CreatedAt, time.Second)
		assert.WithinDuration(t, record.ScheduledDeletionAt, got.ScheduledDeletionAt, time.Second)
	})

	t.Run("get by id returns not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("update persists anonymization state", func(t *testing.T) {
		record := newTestRecord("suite-subject-2", "name", domain.CategoryIdentifiable)
		require.NoError(t, repo.Create(ctx, record))

		record.EncryptedValue = ""
		record.AnonymizedValue = "Person_a1b2c3d4"
		record.AppliedTechnique = "pseudonymization"
		record.IsAnonymized = true
		require.NoError(t, repo.Update(ctx, record))

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAnonymized)
		assert.Empty(t, got.EncryptedValue)
		assert.Equal(t, "Person_a1b2c3d4", got.AnonymizedValue)
		assert.Equal(t, "pseudonymization", got.AppliedTechnique)
	})

	t.Run("update returns not found for unknown record", func(t *testing.T) {
		record := newTestRecord("suite-subject-3", "email", domain.CategoryIdentifiable)
		err := repo.Update(ctx, record)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("list by subject and subject ids", func(t *testing.T) {
		first := newTestRecord("suite-subject-4", "email", domain.CategoryIdentifiable)
		first.CreatedAt = now.Add(-2 * time.Hour)
		second := newTestRecord("suite-subject-4", "phone", domain.CategoryIdentifiable)
		second.CreatedAt = now.Add(-time.Hour)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		records, err := repo.ListBySubject(ctx, "suite-subject-4")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "email", records[0].FieldName)
		assert.Equal(t, "phone", records[1].FieldName)

		subjects, err := repo.ListSubjectIDs(ctx)
		require.NoError(t, err)
		assert.Contains(t, subjects, "suite-subject-4")
	})

	t.Run("lifecycle queries", func(t *testing.T) {
		overdue := newTestRecord("suite-subject-5", "email", domain.CategoryIdentifiable)
		overdue.ScheduledDeletionAt = now.Add(-time.Hour)
		require.NoError(t, repo.Create(ctx, overdue))

		due, err := repo.ListDeletionDue(ctx, now)
		require.NoError(t, err)
		found := false
		for _, record := range due {
			if record.ID == overdue.ID {
				found = true
			}
			assert.False(t, record.IsDeleted)
		}
		assert.True(t, found, "overdue record missing from deletion-due list")

		oldSensitive := newTestRecord("suite-subject-5", "location", domain.CategorySensitive)
		oldSensitive.CreatedAt = now.Add(-100 * 24 * time.Hour)
		require.NoError(t, repo.Create(ctx, oldSensitive))

		dueAnon, err := repo.ListAnonymizationDue(ctx, domain.CategorySensitive, now.Add(-90*24*time.Hour))
		require.NoError(t, err)
		found = false
		for _, record := range dueAnon {
			if record.ID == oldSensitive.ID {
				found = true
			}
			assert.Equal(t, domain.CategorySensitive, record.Category)
		}
		assert.True(t, found, "old sensitive record missing from anonymization-due list")
	})

	t.Run("counts and purge", func(t *testing.T) {
		deleted := newTestRecord("suite-subject-6", "email", domain.CategoryIdentifiable)
		deleted.IsDeleted = true
		deletedAt := now.Add(-40 * 24 * time.Hour)
		deleted.DeletedAt = &deletedAt
		require.NoError(t, repo.Create(ctx, deleted))

		counts, err := repo.Counts(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, counts.Total, 1)
		assert.GreaterOrEqual(t, counts.Deleted, 1)

		cutoff := now.Add(-30 * 24 * time.Hour)

		wouldPurge, err := repo.PurgeDeleted(ctx, cutoff, true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, wouldPurge, int64(1))

		_, err = repo.GetByID(ctx, deleted.ID)
		require.NoError(t, err, "dry run must not remove records")

		purged, err := repo.PurgeDeleted(ctx, cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, wouldPurge, purged)

		_, err = repo.GetByID(ctx, deleted.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
