package usecase

import (
	"context"
	"time"

	"github.com/plantwatch/privacy/internal/dsr/domain"
	"github.com/plantwatch/privacy/internal/metrics"
)

// erasureUseCaseWithMetrics decorates ErasureUseCase with metrics instrumentation.
type erasureUseCaseWithMetrics struct {
	next    ErasureUseCase
	metrics metrics.BusinessMetrics
}

// NewErasureUseCaseWithMetrics wraps an ErasureUseCase with metrics recording.
func NewErasureUseCaseWithMetrics(useCase ErasureUseCase, m metrics.BusinessMetrics) ErasureUseCase {
	return &erasureUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Erase records metrics for erasure request processing.
func (e *erasureUseCaseWithMetrics) Erase(
	ctx context.Context,
	dataSubjectID, reason string,
) (*domain.ErasureResult, error) {
	start := time.Now()
	result, err := e.next.Erase(ctx, dataSubjectID, reason)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "dsr", "erasure_process", status)
	e.metrics.RecordDuration(ctx, "dsr", "erasure_process", time.Since(start), status)

	return result, err
}

// exportUseCaseWithMetrics decorates ExportUseCase with metrics instrumentation.
type exportUseCaseWithMetrics struct {
	next    ExportUseCase
	metrics metrics.BusinessMetrics
}

// NewExportUseCaseWithMetrics wraps an ExportUseCase with metrics recording.
func NewExportUseCaseWithMetrics(useCase ExportUseCase, m metrics.BusinessMetrics) ExportUseCase {
	return &exportUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Export records metrics for export request processing.
func (e *exportUseCaseWithMetrics) Export(
	ctx context.Context,
	dataSubjectID, format string,
) (*domain.Export, error) {
	start := time.Now()
	export, err := e.next.Export(ctx, dataSubjectID, format)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "dsr", "export_process", status)
	e.metrics.RecordDuration(ctx, "dsr", "export_process", time.Since(start), status)

	return export, err
}
