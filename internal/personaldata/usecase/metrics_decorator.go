package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/plantwatch/privacy/internal/metrics"
	"github.com/plantwatch/privacy/internal/personaldata/domain"
)

// useCaseWithMetrics decorates UseCase with metrics instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for record creation operations.
func (u *useCaseWithMetrics) Record(ctx context.Context, input RecordInput) (*domain.Record, error) {
	start := time.Now()
	record, err := u.next.Record(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "personaldata", "record_create", status)
	u.metrics.RecordDuration(ctx, "personaldata", "record_create", time.Since(start), status)

	return record, err
}

// Anonymize records metrics for anonymization operations.
func (u *useCaseWithMetrics) Anonymize(ctx context.Context, recordID uuid.UUID) (bool, error) {
	start := time.Now()
	applied, err := u.next.Anonymize(ctx, recordID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "personaldata", "record_anonymize", status)
	u.metrics.RecordDuration(ctx, "personaldata", "record_anonymize", time.Since(start), status)

	return applied, err
}

// Delete records metrics for soft-deletion operations.
func (u *useCaseWithMetrics) Delete(ctx context.Context, recordID uuid.UUID) (bool, error) {
	start := time.Now()
	deleted, err := u.next.Delete(ctx, recordID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "personaldata", "record_delete", status)
	u.metrics.RecordDuration(ctx, "personaldata", "record_delete", time.Since(start), status)

	return deleted, err
}

// ListBySubject records metrics for subject listing operations.
func (u *useCaseWithMetrics) ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.Record, error) {
	start := time.Now()
	records, err := u.next.ListBySubject(ctx, dataSubjectID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "personaldata", "record_list", status)
	u.metrics.RecordDuration(ctx, "personaldata", "record_list", time.Since(start), status)

	return records, err
}

// RevealValue is a pure transformation and is not instrumented.
func (u *useCaseWithMetrics) RevealValue(record *domain.Record) (string, error) {
	return u.next.RevealValue(record)
}

// PurgeDeleted records metrics for purge operations.
func (u *useCaseWithMetrics) PurgeDeleted(ctx context.Context, olderThanDays int, dryRun bool) (int64, error) {
	start := time.Now()
	purged, err := u.next.PurgeDeleted(ctx, olderThanDays, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "personaldata", "record_purge", status)
	u.metrics.RecordDuration(ctx, "personaldata", "record_purge", time.Since(start), status)

	return purged, err
}
