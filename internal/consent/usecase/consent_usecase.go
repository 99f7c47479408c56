package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/plantwatch/privacy/internal/audit/domain"
	"github.com/plantwatch/privacy/internal/consent/domain"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
	appvalidation "github.com/plantwatch/privacy/internal/validation"
)

// consentVersion is the version of the consent text currently presented to
// data subjects.
const consentVersion = 1

// AuditRecorder forwards consent actions to the audit sink.
type AuditRecorder interface {
	Record(ctx context.Context, action auditDomain.Action, dataSubjectID, reason string, details map[string]any) error
}

// consentUseCase implements the UseCase interface.
type consentUseCase struct {
	repo  Repository
	audit AuditRecorder
}

// NewUseCase creates a consent use case with the provided dependencies.
func NewUseCase(repo Repository, audit AuditRecorder) UseCase {
	return &consentUseCase{repo: repo, audit: audit}
}

func validateInput(input *ConsentInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.DataSubjectID, validation.Required, validation.By(appvalidation.SubjectID)),
		validation.Field(&input.Purpose, validation.Required, validation.Length(1, 255)),
		validation.Field(&input.Source, validation.Required, validation.Length(1, 255)),
	)
	if err != nil {
		return appvalidation.WrapValidationError(err)
	}
	if !input.LegalBasis.Valid() {
		return recordDomain.ErrInvalidLegalBasis
	}
	return nil
}

// Record validates and stores one consent decision.
func (u *consentUseCase) Record(ctx context.Context, input ConsentInput) (*domain.ConsentRecord, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	retentionDays := domain.DefaultRetentionDays
	if input.RetentionDaysOverride > 0 {
		retentionDays = input.RetentionDaysOverride
	}

	now := time.Now().UTC()
	consent := &domain.ConsentRecord{
		ID:                  uuid.Must(uuid.NewV7()),
		DataSubjectID:       input.DataSubjectID,
		Purpose:             input.Purpose,
		LegalBasis:          input.LegalBasis,
		ConsentGiven:        input.ConsentGiven,
		ConsentTimestamp:    now,
		Source:              input.Source,
		IPAddress:           input.IPAddress,
		UserAgent:           input.UserAgent,
		DataCategories:      input.DataCategories,
		RetentionPeriodDays: retentionDays,
		IsActive:            input.ConsentGiven,
		Version:             consentVersion,
		CreatedAt:           now,
	}

	if err := u.repo.Create(ctx, consent); err != nil {
		return nil, apperrors.Wrap(err, "failed to create consent record")
	}

	if u.audit != nil {
		_ = u.audit.Record(ctx, auditDomain.ActionConsentRecorded, consent.DataSubjectID, "", map[string]any{
			"consent_id":    consent.ID.String(),
			"purpose":       consent.Purpose,
			"consent_given": consent.ConsentGiven,
		})
	}

	return consent, nil
}

// WithdrawAll withdraws every active consent of the data subject.
func (u *consentUseCase) WithdrawAll(ctx context.Context, dataSubjectID string) (int64, error) {
	if dataSubjectID == "" {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "data subject id is required")
	}

	withdrawn, err := u.repo.WithdrawAll(ctx, dataSubjectID, time.Now().UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to withdraw consents")
	}

	if withdrawn > 0 && u.audit != nil {
		_ = u.audit.Record(ctx, auditDomain.ActionConsentWithdrawn, dataSubjectID, "", map[string]any{
			"withdrawn": withdrawn,
		})
	}

	return withdrawn, nil
}

// ListBySubject returns the full consent history of the data subject.
func (u *consentUseCase) ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.ConsentRecord, error) {
	consents, err := u.repo.ListBySubject(ctx, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consent records")
	}
	return consents, nil
}

// CountActive returns the number of active consents across all subjects.
func (u *consentUseCase) CountActive(ctx context.Context) (int64, error) {
	count, err := u.repo.CountActive(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count active consents")
	}
	return count, nil
}

// CountActiveBySubject returns the number of active consents of one subject.
func (u *consentUseCase) CountActiveBySubject(ctx context.Context, dataSubjectID string) (int64, error) {
	count, err := u.repo.CountActiveBySubject(ctx, dataSubjectID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count active consents")
	}
	return count, nil
}
