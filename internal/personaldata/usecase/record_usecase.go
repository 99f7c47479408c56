package usecase

import (
	"context"
	"sync"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/plantwatch/privacy/internal/anonymize"
	auditDomain "github.com/plantwatch/privacy/internal/audit/domain"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	"github.com/plantwatch/privacy/internal/personaldata/domain"
	appvalidation "github.com/plantwatch/privacy/internal/validation"
)

// Cipher is the cryptographic dependency protecting stored field values.
// *service.Box from internal/crypto satisfies this interface.
type Cipher interface {
	EncryptValue(plaintext string) (string, error)
	DecryptValue(encoded string) (string, error)
}

// Rules resolves anonymization rules by field name.
// *anonymize.Registry satisfies this interface.
type Rules interface {
	Lookup(fieldName string) (anonymize.Rule, bool)
}

// AuditRecorder forwards engine actions to the audit sink.
type AuditRecorder interface {
	Record(ctx context.Context, action auditDomain.Action, dataSubjectID, reason string, details map[string]any) error
}

// subjectLocks serializes read-modify-write mutations per data subject, so
// workflow calls and background sweeps never interleave on the same subject.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSubjectLocks() *subjectLocks {
	return &subjectLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for the given subject and returns its unlock func.
func (s *subjectLocks) lock(dataSubjectID string) func() {
	s.mu.Lock()
	m, ok := s.locks[dataSubjectID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[dataSubjectID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// personalDataUseCase implements the UseCase interface.
type personalDataUseCase struct {
	repo   Repository
	cipher Cipher
	rules  Rules
	audit  AuditRecorder
	locks  *subjectLocks
}

// NewUseCase creates a personal-data use case with the provided dependencies.
func NewUseCase(repo Repository, cipher Cipher, rules Rules, audit AuditRecorder) UseCase {
	return &personalDataUseCase{
		repo:   repo,
		cipher: cipher,
		rules:  rules,
		audit:  audit,
		locks:  newSubjectLocks(),
	}
}

// validateInput checks the caller-supplied attributes of a new record.
func validateInput(input *RecordInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.DataSubjectID, validation.Required, validation.By(appvalidation.SubjectID)),
		validation.Field(&input.FieldName, validation.Required, validation.Length(1, 255)),
		validation.Field(&input.Value, validation.Required),
	)
	if err != nil {
		return appvalidation.WrapValidationError(err)
	}
	if !input.Category.Valid() {
		return domain.ErrInvalidCategory
	}
	if !input.LegalBasis.Valid() {
		return domain.ErrInvalidLegalBasis
	}
	return nil
}

// Record validates, encrypts and stores a new personal-data record.
//
// The retention period defaults by category and is fixed at creation together
// with the scheduled deletion time. Sensitive records are anonymized before
// they are first persisted (privacy by default), independent of any sweep.
func (u *personalDataUseCase) Record(ctx context.Context, input RecordInput) (*domain.Record, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	retentionDays := input.Category.DefaultRetentionDays()
	if input.RetentionDaysOverride > 0 {
		retentionDays = input.RetentionDaysOverride
	}

	now := time.Now().UTC()
	record := &domain.Record{
		ID:                  uuid.Must(uuid.NewV7()),
		DataSubjectID:       input.DataSubjectID,
		Category:            input.Category,
		FieldName:           input.FieldName,
		LegalBasis:          input.LegalBasis,
		ConsentTimestamp:    input.ConsentTimestamp,
		RetentionPeriodDays: retentionDays,
		CreatedAt:           now,
		ScheduledDeletionAt: now.AddDate(0, 0, retentionDays),
	}

	encrypted, err := u.cipher.EncryptValue(input.Value)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt record value")
	}
	record.EncryptedValue = encrypted

	// Privacy by default: sensitive values never reach the store in
	// recoverable form when a rule can anonymize them.
	if input.Category == domain.CategorySensitive {
		if rule, ok := u.rules.Lookup(input.FieldName); ok {
			anonymized, err := rule.Transform(input.Value)
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to anonymize sensitive record")
			}
			record.AnonymizedValue = anonymized
			record.AppliedTechnique = string(rule.Technique)
			record.IsAnonymized = true
			record.EncryptedValue = ""
		}
	}

	unlock := u.locks.lock(record.DataSubjectID)
	defer unlock()

	if err := u.repo.Create(ctx, record); err != nil {
		return nil, apperrors.Wrap(err, "failed to create personal data record")
	}

	if u.audit != nil {
		_ = u.audit.Record(ctx, auditDomain.ActionDataRecorded, record.DataSubjectID, "", map[string]any{
			"record_id": record.ID.String(),
			"field":     record.FieldName,
			"category":  string(record.Category),
		})
	}

	return record, nil
}

// Anonymize irreversibly anonymizes one record.
//
// Missing records, deleted records and fields without a registered rule all
// report false without an error; only infrastructure faults surface as errors.
func (u *personalDataUseCase) Anonymize(ctx context.Context, recordID uuid.UUID) (bool, error) {
	record, err := u.repo.GetByID(ctx, recordID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	unlock := u.locks.lock(record.DataSubjectID)
	defer unlock()

	// Re-read under the subject lock; another mutation may have won.
	record, err = u.repo.GetByID(ctx, recordID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return u.anonymizeLocked(ctx, record)
}

// anonymizeLocked applies the registered rule to a record the caller has
// already locked. Idempotent for already-anonymized records.
func (u *personalDataUseCase) anonymizeLocked(ctx context.Context, record *domain.Record) (bool, error) {
	if record.IsDeleted {
		return false, nil
	}
	if record.IsAnonymized {
		return true, nil
	}

	rule, ok := u.rules.Lookup(record.FieldName)
	if !ok {
		return false, nil
	}

	plaintext, err := u.cipher.DecryptValue(record.EncryptedValue)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to decrypt record value")
	}

	anonymized, err := rule.Transform(plaintext)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to transform record value")
	}

	record.AnonymizedValue = anonymized
	record.AppliedTechnique = string(rule.Technique)
	record.IsAnonymized = true
	record.EncryptedValue = ""

	if err := u.repo.Update(ctx, record); err != nil {
		return false, apperrors.Wrap(err, "failed to update personal data record")
	}
	return true, nil
}

// Delete soft-deletes one record, clearing both value fields.
//
// Records processed under a legal obligation are protected: Delete reports
// false and leaves them untouched.
func (u *personalDataUseCase) Delete(ctx context.Context, recordID uuid.UUID) (bool, error) {
	record, err := u.repo.GetByID(ctx, recordID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	unlock := u.locks.lock(record.DataSubjectID)
	defer unlock()

	record, err = u.repo.GetByID(ctx, recordID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if record.IsDeleted {
		return false, nil
	}
	if !record.Deletable() {
		return false, nil
	}

	now := time.Now().UTC()
	record.IsDeleted = true
	record.DeletedAt = &now
	record.EncryptedValue = ""
	record.AnonymizedValue = ""

	if err := u.repo.Update(ctx, record); err != nil {
		return false, apperrors.Wrap(err, "failed to update personal data record")
	}
	return true, nil
}

// ListBySubject returns every record of the data subject.
func (u *personalDataUseCase) ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.Record, error) {
	records, err := u.repo.ListBySubject(ctx, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list personal data records")
	}
	return records, nil
}

// RevealValue returns the value a record currently exposes: the anonymized
// value once anonymized, otherwise the decrypted original.
func (u *personalDataUseCase) RevealValue(record *domain.Record) (string, error) {
	if record.IsDeleted {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "record is deleted")
	}
	if record.IsAnonymized {
		return record.AnonymizedValue, nil
	}
	return u.cipher.DecryptValue(record.EncryptedValue)
}

// PurgeDeleted physically removes records soft-deleted before the cutoff.
func (u *personalDataUseCase) PurgeDeleted(ctx context.Context, olderThanDays int, dryRun bool) (int64, error) {
	if olderThanDays < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "olderThanDays must not be negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	count, err := u.repo.PurgeDeleted(ctx, cutoff, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to purge deleted records")
	}
	return count, nil
}
