package usecase

import (
	"context"
	"time"

	"github.com/plantwatch/privacy/internal/consent/domain"
	"github.com/plantwatch/privacy/internal/metrics"
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

// Record records metrics for consent decision storage.
func (u *useCaseWithMetrics) Record(ctx context.Context, input ConsentInput) (*domain.ConsentRecord, error) {
	start := time.Now()
	consent, err := u.next.Record(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "consent", "consent_record", status)
	u.metrics.RecordDuration(ctx, "consent", "consent_record", time.Since(start), status)

	return consent, err
}

// WithdrawAll records metrics for consent withdrawal operations.
func (u *useCaseWithMetrics) WithdrawAll(ctx context.Context, dataSubjectID string) (int64, error) {
	start := time.Now()
	withdrawn, err := u.next.WithdrawAll(ctx, dataSubjectID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "consent", "consent_withdraw", status)
	u.metrics.RecordDuration(ctx, "consent", "consent_withdraw", time.Since(start), status)

	return withdrawn, err
}

// ListBySubject records metrics for consent history listing.
func (u *useCaseWithMetrics) ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.ConsentRecord, error) {
	start := time.Now()
	consents, err := u.next.ListBySubject(ctx, dataSubjectID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "consent", "consent_list", status)
	u.metrics.RecordDuration(ctx, "consent", "consent_list", time.Since(start), status)

	return consents, err
}

// CountActive is a cheap aggregate read and is not instrumented.
func (u *useCaseWithMetrics) CountActive(ctx context.Context) (int64, error) {
	return u.next.CountActive(ctx)
}

// CountActiveBySubject is a cheap aggregate read and is not instrumented.
func (u *useCaseWithMetrics) CountActiveBySubject(ctx context.Context, dataSubjectID string) (int64, error) {
	return u.next.CountActiveBySubject(ctx, dataSubjectID)
}
