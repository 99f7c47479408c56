package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantwatch/privacy/internal/metrics"
	"github.com/plantwatch/privacy/internal/personaldata/domain"
)

// spyMetrics captures RecordOperation calls for assertions.
type spyMetrics struct {
	operations []metricCall
	durations  []metricCall
}

type metricCall struct {
	domain    string
	operation string
	status    string
}

func (s *spyMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	s.operations = append(s.operations, metricCall{domain: domain, operation: operation, status: status})
}

func (s *spyMetrics) RecordDuration(_ context.Context, domain, operation string, _ time.Duration, status string) {
	s.durations = append(s.durations, metricCall{domain: domain, operation: operation, status: status})
}

var _ metrics.BusinessMetrics = (*spyMetrics)(nil)

// stubUseCase returns canned values so the decorator's pass-through and
// status mapping can be asserted in isolation.
type stubUseCase struct {
	record *domain.Record
	flag   bool
	count  int64
	err    error
}

func (s *stubUseCase) Record(context.Context, RecordInput) (*domain.Record, error) {
	return s.record, s.err
}

func (s *stubUseCase) Anonymize(context.Context, uuid.UUID) (bool, error) {
	return s.flag, s.err
}

func (s *stubUseCase) Delete(context.Context, uuid.UUID) (bool, error) {
	return s.flag, s.err
}

func (s *stubUseCase) ListBySubject(context.Context, string) ([]*domain.Record, error) {
	if s.record == nil {
		return nil, s.err
	}
	return []*domain.Record{s.record}, s.err
}

func (s *stubUseCase) RevealValue(*domain.Record) (string, error) {
	return "value", s.err
}

func (s *stubUseCase) PurgeDeleted(context.Context, int, bool) (int64, error) {
	return s.count, s.err
}

var _ UseCase = (*stubUseCase)(nil)

func TestNewUseCaseWithMetrics(t *testing.T) {
	decorator := NewUseCaseWithMetrics(&stubUseCase{}, &spyMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*UseCase)(nil), decorator)
}

func TestMetricsDecorator_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		expected := &domain.Record{ID: uuid.Must(uuid.NewV7())}
		spy := &spyMetrics{}
		decorator := NewUseCaseWithMetrics(&stubUseCase{record: expected}, spy)

		record, err := decorator.Record(ctx, RecordInput{})

		require.NoError(t, err)
		assert.Equal(t, expected, record)
		require.Len(t, spy.operations, 1)
		assert.Equal(t, metricCall{domain: "personaldata", operation: "record_create", status: "success"}, spy.operations[0])
		require.Len(t, spy.durations, 1)
		assert.Equal(t, "success", spy.durations[0].status)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		expectedErr := errors.New("database error")
		spy := &spyMetrics{}
		decorator := NewUseCaseWithMetrics(&stubUseCase{err: expectedErr}, spy)

		_, err := decorator.Record(ctx, RecordInput{})

		require.ErrorIs(t, err, expectedErr)
		require.Len(t, spy.operations, 1)
		assert.Equal(t, metricCall{domain: "personaldata", operation: "record_create", status: "error"}, spy.operations[0])
	})
}

func TestMetricsDecorator_Anonymize(t *testing.T) {
	ctx := context.Background()
	spy := &spyMetrics{}
	decorator := NewUseCaseWithMetrics(&stubUseCase{flag: true}, spy)

	applied, err := decorator.Anonymize(ctx, uuid.Must(uuid.NewV7()))

	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, spy.operations, 1)
	assert.Equal(t, metricCall{domain: "personaldata", operation: "record_anonymize", status: "success"}, spy.operations[0])
}

func TestMetricsDecorator_Delete(t *testing.T) {
	ctx := context.Background()
	expectedErr := errors.New("database error")
	spy := &spyMetrics{}
	decorator := NewUseCaseWithMetrics(&stubUseCase{err: expectedErr}, spy)

	_, err := decorator.Delete(ctx, uuid.Must(uuid.NewV7()))

	require.ErrorIs(t, err, expectedErr)
	require.Len(t, spy.operations, 1)
	assert.Equal(t, metricCall{domain: "personaldata", operation: "record_delete", status: "error"}, spy.operations[0])
}

func TestMetricsDecorator_PurgeDeleted(t *testing.T) {
	ctx := context.Background()
	spy := &spyMetrics{}
	decorator := NewUseCaseWithMetrics(&stubUseCase{count: 3}, spy)

	purged, err := decorator.PurgeDeleted(ctx, 30, false)

	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	require.Len(t, spy.operations, 1)
	assert.Equal(t, metricCall{domain: "personaldata", operation: "record_purge", status: "success"}, spy.operations[0])
}

func TestMetricsDecorator_RevealValueNotInstrumented(t *testing.T) {
	spy := &spyMetrics{}
	decorator := NewUseCaseWithMetrics(&stubUseCase{}, spy)

	value, err := decorator.RevealValue(&domain.Record{})

	require.NoError(t, err)
	assert.Equal(t, "value", value)
	assert.Empty(t, spy.operations)
	assert.Empty(t, spy.durations)
}
