package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	complianceDomain "github.com/plantwatch/privacy/internal/compliance/domain"
	complianceUsecase "github.com/plantwatch/privacy/internal/compliance/usecase"
)

// RunReport generates the compliance report and writes it to the given writer.
// Supports both text and JSON output formats.
func RunReport(
	ctx context.Context,
	compliance complianceUsecase.UseCase,
	logger *slog.Logger,
	out io.Writer,
	format string,
) error {
	logger.Info("generating compliance report")

	report, err := compliance.Report(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate compliance report: %w", err)
	}

	if format == "json" {
		if err := outputReportJSON(out, report); err != nil {
			return err
		}
	} else {
		outputReportText(out, report)
	}

	logger.Info("compliance report generated",
		slog.Bool("compliant", report.Overview.Compliant),
		slog.Int("data_subjects", report.DataSubjects),
		slog.Int("issues", len(report.ComplianceIssues)),
	)

	return nil
}

// outputReportText outputs the report in human-readable text format.
func outputReportText(out io.Writer, report *complianceDomain.Report) {
	status := "COMPLIANT"
	if !report.Overview.Compliant {
		status = "NON-COMPLIANT"
	}

	fmt.Fprintf(out, "Compliance status: %s\n", status)
	fmt.Fprintf(out, "Data subjects:        %d\n", report.DataSubjects)
	fmt.Fprintf(out, "Personal data records: %d\n", report.PersonalDataRecords)
	fmt.Fprintf(out, "Anonymized records:    %d (%.1f%%)\n", report.AnonymizedRecords, report.AnonymizedPercent)
	fmt.Fprintf(out, "Deleted records:       %d\n", report.DeletedRecords)
	fmt.Fprintf(out, "Active consents:       %d\n", report.ActiveConsents)

	if len(report.ComplianceIssues) > 0 {
		fmt.Fprintln(out, "\nIssues:")
		for _, issue := range report.ComplianceIssues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(out, "\nRecommendations:")
		for _, recommendation := range report.Recommendations {
			fmt.Fprintf(out, "  - %s\n", recommendation)
		}
	}
}

// outputReportJSON outputs the report in JSON format for machine consumption.
func outputReportJSON(out io.Writer, report *complianceDomain.Report) error {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
