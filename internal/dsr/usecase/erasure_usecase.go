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

// erasureUseCase implements the ErasureUseCase interface.
type erasureUseCase struct {
	records  recordUsecase.UseCase
	consents consentUsecase.UseCase
	audit    AuditRecorder
	logger   *slog.Logger
}

// NewErasureUseCase creates an erasure use case with the provided dependencies.
func NewErasureUseCase(
	records recordUsecase.UseCase,
	consents consentUsecase.UseCase,
	audit AuditRecorder,
	logger *slog.Logger,
) ErasureUseCase {
	return &erasureUseCase{records: records, consents: consents, audit: audit, logger: logger}
}

// Erase processes one right-to-be-forgotten request.
//
// Each record is handled independently: deletable records are soft-deleted,
// legal-obligation records are anonymized instead. A failure on one record is
// collected and the loop continues; mutations already applied stay applied.
// Consents are withdrawn unconditionally, even when no record could be erased.
func (u *erasureUseCase) Erase(ctx context.Context, dataSubjectID, reason string) (*domain.ErasureResult, error) {
	err := validation.Validate(dataSubjectID, validation.Required, validation.By(appvalidation.SubjectID))
	if err != nil {
		return nil, appvalidation.WrapValidationError(err)
	}

	result := &domain.ErasureResult{
		DataSubjectID: dataSubjectID,
		Success:       true,
		ProcessedAt:   time.Now().UTC(),
	}

	records, err := u.records.ListBySubject(ctx, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records for erasure")
	}

	for _, record := range records {
		if record.IsDeleted {
			continue
		}

		if record.Deletable() {
			deleted, err := u.records.Delete(ctx, record.ID)
			if err != nil {
				result.Success = false
				result.Errors = append(result.Errors, err.Error())
				u.logger.Error("erasure: delete failed",
					slog.String("record_id", record.ID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			if deleted {
				result.DeletedRecords++
			}
			continue
		}

		// Legal obligation forbids deletion; anonymize instead.
		if record.IsAnonymized {
			continue
		}
		anonymized, err := u.records.Anonymize(ctx, record.ID)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, err.Error())
			u.logger.Error("erasure: anonymize failed",
				slog.String("record_id", record.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if anonymized {
			result.AnonymizedRecords++
		}
	}

	withdrawn, err := u.consents.WithdrawAll(ctx, dataSubjectID)
	if err != nil {
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
	}
	result.WithdrawnConsents = withdrawn

	if u.audit != nil {
		_ = u.audit.Record(ctx, auditDomain.ActionDataErasure, dataSubjectID, reason, map[string]any{
			"deleted":    result.DeletedRecords,
			"anonymized": result.AnonymizedRecords,
			"withdrawn":  result.WithdrawnConsents,
			"success":    result.Success,
		})
	}

	u.logger.Info("erasure request processed",
		slog.String("data_subject_id", dataSubjectID),
		slog.Int("deleted", result.DeletedRecords),
		slog.Int("anonymized", result.AnonymizedRecords),
		slog.Int64("withdrawn_consents", result.WithdrawnConsents),
		slog.Bool("success", result.Success),
	)

	return result, nil
}
