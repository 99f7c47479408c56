package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	dsrUsecase "github.com/plantwatch/privacy/internal/dsr/usecase"
)

// RunExport collects all personal data held for one data subject and writes
// the export document as JSON to the given writer.
func RunExport(
	ctx context.Context,
	exporter dsrUsecase.ExportUseCase,
	logger *slog.Logger,
	out io.Writer,
	dataSubjectID, format string,
) error {
	logger.Info("processing export request",
		slog.String("data_subject_id", dataSubjectID),
	)

	export, err := exporter.Export(ctx, dataSubjectID, format)
	if err != nil {
		return fmt.Errorf("failed to process export request: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	fmt.Fprintln(out, string(jsonBytes))

	logger.Info("export request processed",
		slog.String("data_subject_id", dataSubjectID),
		slog.Int("records", len(export.PersonalData)),
		slog.Int("consents", len(export.Consents)),
	)

	return nil
}
