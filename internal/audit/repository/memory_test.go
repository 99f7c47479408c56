package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantwatch/privacy/internal/audit/domain"
)

func newTestEntry(action domain.Action, subjectID string, createdAt time.Time) *domain.Entry {
	return &domain.Entry{
		ID:            uuid.Must(uuid.NewV7()),
		Action:        action,
		DataSubjectID: subjectID,
		Reason:        "test",
		Details:       map[string]any{"count": 1},
		CreatedAt:     createdAt,
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("list returns entries newest first", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", now.Add(-2*time.Hour))))
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataErasure, "subject-1", now.Add(-time.Hour))))
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataExport, "subject-1", now)))

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, domain.ActionDataExport, entries[0].Action)
		assert.Equal(t, domain.ActionDataErasure, entries[1].Action)
		assert.Equal(t, domain.ActionDataRecorded, entries[2].Action)
	})

	t.Run("list applies pagination", func(t *testing.T) {
		repo := NewMemoryRepository()
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", now.Add(time.Duration(i)*time.Minute))))
		}

		entries, err := repo.List(ctx, 2, 2, nil, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		entries, err = repo.List(ctx, 10, 2, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("list filters by created-at boundaries inclusively", func(t *testing.T) {
		repo := NewMemoryRepository()
		early := now.Add(-2 * time.Hour)
		middle := now.Add(-time.Hour)
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", early)))
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", middle)))
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", now)))

		entries, err := repo.List(ctx, 0, 10, &middle, &middle)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, middle, entries[0].CreatedAt)

		entries, err = repo.List(ctx, 0, 10, &middle, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("delete older than removes old entries", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", now.Add(-48*time.Hour))))
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", now)))

		removed, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour), false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("delete older than dry run keeps entries", func(t *testing.T) {
		repo := NewMemoryRepository()
		require.NoError(t, repo.Create(ctx, newTestEntry(domain.ActionDataRecorded, "subject-1", now.Add(-48*time.Hour))))

		removed, err := repo.DeleteOlderThan(ctx, now, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("stored entries are isolated from caller mutation", func(t *testing.T) {
		repo := NewMemoryRepository()
		entry := newTestEntry(domain.ActionDataRecorded, "subject-1", now)
		require.NoError(t, repo.Create(ctx, entry))

		entry.Details["count"] = 99

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 1, entries[0].Details["count"])
	})
}
