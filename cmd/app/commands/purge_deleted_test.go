package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
	recordUsecase "github.com/plantwatch/privacy/internal/personaldata/usecase"
)

type stubRecords struct {
	purged int64
	err    error
}

func (s *stubRecords) Record(context.Context, recordUsecase.RecordInput) (*recordDomain.Record, error) {
	return nil, s.err
}

func (s *stubRecords) Anonymize(context.Context, uuid.UUID) (bool, error) {
	return false, s.err
}

func (s *stubRecords) Delete(context.Context, uuid.UUID) (bool, error) {
	return false, s.err
}

func (s *stubRecords) ListBySubject(context.Context, string) ([]*recordDomain.Record, error) {
	return nil, s.err
}

func (s *stubRecords) RevealValue(*recordDomain.Record) (string, error) {
	return "", s.err
}

func (s *stubRecords) PurgeDeleted(context.Context, int, bool) (int64, error) {
	return s.purged, s.err
}

var _ recordUsecase.UseCase = (*stubRecords)(nil)

func TestRunPurgeDeleted(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunPurgeDeleted(ctx, &stubRecords{purged: 7}, logger, &out, 30, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully purged 7 record(s)")
	})

	t.Run("dry-run-json-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunPurgeDeleted(ctx, &stubRecords{purged: 4}, logger, &out, 30, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 4`)
		require.Contains(t, out.String(), `"dry_run": true`)
	})

	t.Run("invalid-days", func(t *testing.T) {
		var out bytes.Buffer
		err := RunPurgeDeleted(ctx, &stubRecords{}, logger, &out, -1, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "days must be a positive number")
	})
}
