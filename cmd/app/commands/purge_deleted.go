package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	recordUsecase "github.com/plantwatch/privacy/internal/personaldata/usecase"
)

// RunPurgeDeleted physically removes records soft-deleted more than the given
// number of days ago. Supports dry-run mode to preview the purge count and
// both text/JSON output formats.
func RunPurgeDeleted(
	ctx context.Context,
	records recordUsecase.UseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("purging soft-deleted records",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := records.PurgeDeleted(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to purge deleted records: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputPurgeJSON(out, count, days, dryRun)
	} else {
		outputPurgeText(out, count, days, dryRun)
	}

	logger.Info("purge completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputPurgeText outputs the result in human-readable text format.
func outputPurgeText(out io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would purge %d record(s) soft-deleted more than %d day(s) ago\n", count, days)
	} else {
		fmt.Fprintf(out, "Successfully purged %d record(s) soft-deleted more than %d day(s) ago\n", count, days)
	}
}

// outputPurgeJSON outputs the result in JSON format for machine consumption.
func outputPurgeJSON(out io.Writer, count int64, days int, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
