package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	dsrDomain "github.com/plantwatch/privacy/internal/dsr/domain"
	dsrUsecase "github.com/plantwatch/privacy/internal/dsr/usecase"
)

// RunErase processes a right-to-be-forgotten request for one data subject.
// Supports both text and JSON output formats.
func RunErase(
	ctx context.Context,
	erasure dsrUsecase.ErasureUseCase,
	logger *slog.Logger,
	out io.Writer,
	dataSubjectID, reason, format string,
) error {
	logger.Info("processing erasure request",
		slog.String("data_subject_id", dataSubjectID),
	)

	result, err := erasure.Erase(ctx, dataSubjectID, reason)
	if err != nil {
		return fmt.Errorf("failed to process erasure request: %w", err)
	}

	if format == "json" {
		if err := outputEraseJSON(out, result); err != nil {
			return err
		}
	} else {
		outputEraseText(out, result)
	}

	logger.Info("erasure request processed",
		slog.String("data_subject_id", dataSubjectID),
		slog.Bool("success", result.Success),
		slog.Int("deleted", result.DeletedRecords),
		slog.Int("anonymized", result.AnonymizedRecords),
	)

	return nil
}

// outputEraseText outputs the result in human-readable text format.
func outputEraseText(out io.Writer, result *dsrDomain.ErasureResult) {
	status := "completed"
	if !result.Success {
		status = "completed with errors"
	}

	fmt.Fprintf(out, "Erasure for subject %s %s\n", result.DataSubjectID, status)
	fmt.Fprintf(out, "Deleted records:    %d\n", result.DeletedRecords)
	fmt.Fprintf(out, "Anonymized records: %d\n", result.AnonymizedRecords)
	fmt.Fprintf(out, "Withdrawn consents: %d\n", result.WithdrawnConsents)

	for _, errMsg := range result.Errors {
		fmt.Fprintf(out, "Error: %s\n", errMsg)
	}
}

// outputEraseJSON outputs the result in JSON format for machine consumption.
func outputEraseJSON(out io.Writer, result *dsrDomain.ErasureResult) error {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal erasure result: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
