package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	dsrDomain "github.com/plantwatch/privacy/internal/dsr/domain"
)

type stubExport struct {
	export *dsrDomain.Export
	err    error
}

func (s *stubExport) Export(context.Context, string, string) (*dsrDomain.Export, error) {
	return s.export, s.err
}

func TestRunExport(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("json-output", func(t *testing.T) {
		export := &dsrDomain.Export{
			DataSubjectID: "operator-17",
			PersonalData: []dsrDomain.ExportRecord{
				{
					ID:        uuid.Must(uuid.NewV7()),
					Field:     "email",
					Value:     "operator-17@plantwatch.example",
					Category:  "identifiable",
					CreatedAt: time.Now().UTC(),
				},
			},
			Consents: []dsrDomain.ExportConsent{
				{Purpose: "shift-scheduling", ConsentGiven: true, IsActive: true},
			},
			Format:          "json",
			ExportTimestamp: time.Now().UTC(),
		}

		var out bytes.Buffer
		err := RunExport(ctx, &stubExport{export: export}, logger, &out, "operator-17", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"dataSubjectId": "operator-17"`)
		require.Contains(t, out.String(), `"value": "operator-17@plantwatch.example"`)
		require.Contains(t, out.String(), `"purpose": "shift-scheduling"`)
	})

	t.Run("usecase-error", func(t *testing.T) {
		var out bytes.Buffer
		err := RunExport(ctx, &stubExport{err: errors.New("invalid input")}, logger, &out, "", "json")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to process export request")
	})
}
