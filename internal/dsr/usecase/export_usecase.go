package usecase

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/jellydator/validation"

	auditDomain "github.com/plantwatch/privacy/internal/audit/domain"
	consentUsecase "github.com/plantwatch/privacy/internal/consent/usecase"
	"github.com/plantwatch/privacy/internal/dsr/domain"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	recordUsecase "github.com/plantwatch/privacy/internal/personaldata/usecase"
	appvalidation "github.com/plantwatch/privacy/internal/validation"
)

// exportUseCase implements the ExportUseCase interface.
type exportUseCase struct {
	records  recordUsecase.UseCase
	consents consentUsecase.UseCase
	audit    AuditRecorder
	logger   *slog.Logger
}

// NewExportUseCase creates an export use case with the provided dependencies.
func NewExportUseCase(
	records recordUsecase.UseCase,
	consents consentUsecase.UseCase,
	audit AuditRecorder,
	logger *slog.Logger,
) ExportUseCase {
	return &exportUseCase{records: records, consents: consents, audit: audit, logger: logger}
}

// Export collects the subject's non-deleted records and consent history.
// Anonymized records expose their anonymized value; all others are decrypted.
func (u *exportUseCase) Export(ctx context.Context, dataSubjectID, format string) (*domain.Export, error) {
	err := validation.Validate(dataSubjectID, validation.Required, validation.By(appvalidation.SubjectID))
	if err != nil {
		return nil, appvalidation.WrapValidationError(err)
	}
	if format == "" {
		format = "json"
	}

	records, err := u.records.ListBySubject(ctx, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records for export")
	}

	export := &domain.Export{
		DataSubjectID:   dataSubjectID,
		PersonalData:    make([]domain.ExportRecord, 0, len(records)),
		Consents:        make([]domain.ExportConsent, 0),
		Format:          format,
		ExportTimestamp: time.Now().UTC(),
	}

	for _, record := range records {
		if record.IsDeleted {
			continue
		}

		// An unrevealable record is skipped and reported, never fatal;
		// the rest of the export still reaches the subject.
		value, err := u.records.RevealValue(record)
		if err != nil {
			export.Errors = append(export.Errors, err.Error())
			u.logger.Error("export: reveal failed",
				slog.String("record_id", record.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		export.PersonalData = append(export.PersonalData, domain.ExportRecord{
			ID:           record.ID,
			Field:        record.FieldName,
			Value:        value,
			Category:     string(record.Category),
			CreatedAt:    record.CreatedAt,
			IsAnonymized: record.IsAnonymized,
		})
	}

	consents, err := u.consents.ListBySubject(ctx, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consents for export")
	}
	for _, consent := range consents {
		export.Consents = append(export.Consents, domain.ExportConsent{
			Purpose:        consent.Purpose,
			ConsentGiven:   consent.ConsentGiven,
			Timestamp:      consent.ConsentTimestamp,
			IsActive:       consent.IsActive,
			DataCategories: consent.DataCategories,
		})
	}

	if u.audit != nil {
		_ = u.audit.Record(ctx, auditDomain.ActionDataExport, dataSubjectID, "", map[string]any{
			"records":  len(export.PersonalData),
			"consents": len(export.Consents),
			"format":   format,
		})
	}

	u.logger.Info("export request processed",
		slog.String("data_subject_id", dataSubjectID),
		slog.Int("records", len(export.PersonalData)),
		slog.Int("consents", len(export.Consents)),
		slog.String("format", format),
	)

	return export, nil
}
