package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plantwatch/privacy/internal/compliance/domain"
	consentUsecase "github.com/plantwatch/privacy/internal/consent/usecase"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	recordUsecase "github.com/plantwatch/privacy/internal/personaldata/usecase"
)

// complianceUseCase implements the UseCase interface.
type complianceUseCase struct {
	records  recordUsecase.Repository
	consents consentUsecase.UseCase
	logger   *slog.Logger
}

// NewUseCase creates a compliance use case with the provided dependencies.
func NewUseCase(
	records recordUsecase.Repository,
	consents consentUsecase.UseCase,
	logger *slog.Logger,
) UseCase {
	return &complianceUseCase{records: records, consents: consents, logger: logger}
}

// Check evaluates the compliance rules over every data subject.
//
// Rule A flags subjects that still hold identifiable data (at least one
// non-deleted, non-anonymized record) without a single active consent.
// Rule B flags records kept past their scheduled deletion time. A check never
// mutates state.
func (u *complianceUseCase) Check(ctx context.Context) (*domain.CheckResult, error) {
	now := time.Now().UTC()
	result := &domain.CheckResult{
		Compliant:       true,
		Issues:          []domain.Issue{},
		Recommendations: []string{},
		CheckedAt:       now,
	}

	subjects, err := u.records.ListSubjectIDs(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list data subjects")
	}

	for _, subjectID := range subjects {
		records, err := u.records.ListBySubject(ctx, subjectID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list records for compliance check")
		}

		var identifiable, overdue int
		for _, record := range records {
			if !record.IsDeleted && !record.IsAnonymized {
				identifiable++
			}
			if record.Overdue(now) {
				overdue++
			}
		}

		if identifiable > 0 {
			active, err := u.consents.CountActiveBySubject(ctx, subjectID)
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to count active consents for compliance check")
			}
			if active == 0 {
				result.Issues = append(result.Issues, domain.Issue{
					DataSubjectID:  subjectID,
					Description:    fmt.Sprintf("no active consent but has personal data: subject %s", subjectID),
					Recommendation: fmt.Sprintf("obtain consent from subject %s or anonymize their records", subjectID),
				})
			}
		}

		if overdue > 0 {
			result.Issues = append(result.Issues, domain.Issue{
				DataSubjectID:  subjectID,
				Description:    fmt.Sprintf("%d overdue records for subject %s", overdue, subjectID),
				Recommendation: fmt.Sprintf("anonymize or delete the overdue records of subject %s immediately", subjectID),
			})
		}
	}

	for _, issue := range result.Issues {
		result.Recommendations = append(result.Recommendations, issue.Recommendation)
	}
	result.Compliant = len(result.Issues) == 0

	return result, nil
}

// Report aggregates store-wide counts with a fresh check result.
func (u *complianceUseCase) Report(ctx context.Context) (*domain.Report, error) {
	check, err := u.Check(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := u.records.Counts(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count records for compliance report")
	}

	subjects, err := u.records.ListSubjectIDs(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list data subjects")
	}

	activeConsents, err := u.consents.CountActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count active consents")
	}

	report := &domain.Report{
		Overview: domain.Overview{
			Compliant: check.Compliant,
			LastCheck: check.CheckedAt,
		},
		DataSubjects:        len(subjects),
		PersonalDataRecords: counts.Total,
		AnonymizedRecords:   counts.Anonymized,
		DeletedRecords:      counts.Deleted,
		ActiveConsents:      activeConsents,
		ComplianceIssues:    make([]string, 0, len(check.Issues)),
		Recommendations:     check.Recommendations,
		LastAuditDate:       check.CheckedAt,
	}

	// Guard the empty store; a fresh deployment is trivially compliant.
	if counts.Total > 0 {
		report.AnonymizedPercent = float64(counts.Anonymized) / float64(counts.Total) * 100
	}

	for _, issue := range check.Issues {
		report.ComplianceIssues = append(report.ComplianceIssues, issue.Description)
	}

	u.logger.Info("compliance report generated",
		slog.Bool("compliant", check.Compliant),
		slog.Int("issues", len(check.Issues)),
		slog.Int("data_subjects", report.DataSubjects),
		slog.Int("records", report.PersonalDataRecords),
	)

	return report, nil
}
