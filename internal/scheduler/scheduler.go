// Package scheduler runs the three periodic lifecycle sweeps: retention
// enforcement, age-based auto-anonymization and the compliance check. Sweeps
// are full scans; the repository queries narrow them to due records only.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	auditDomain "github.com/plantwatch/privacy/internal/audit/domain"
	complianceUsecase "github.com/plantwatch/privacy/internal/compliance/usecase"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
	recordUsecase "github.com/plantwatch/privacy/internal/personaldata/usecase"
)

// Age thresholds for the auto-anonymization sweep. Only these two categories
// are aged out; the others are handled by the retention sweep alone.
const (
	sensitiveMaxAge    = 90 * 24 * time.Hour
	identifiableMaxAge = 365 * 24 * time.Hour
)

// ErrSweepRunning reports that the previous run of the same sweep has not
// finished yet. Ticks arriving while a sweep runs are skipped, never queued.
var ErrSweepRunning = apperrors.New("sweep is already running")

// AuditRecorder forwards sweep outcomes to the audit sink.
type AuditRecorder interface {
	Record(ctx context.Context, action auditDomain.Action, dataSubjectID, reason string, details map[string]any) error
}

// Config carries the sweep intervals and the shared mutation rate limit.
type Config struct {
	RetentionInterval     time.Duration
	AnonymizationInterval time.Duration
	ComplianceInterval    time.Duration
	// RateLimit caps record mutations per second across all sweeps; zero
	// disables pacing.
	RateLimit float64
	RateBurst int
}

// SweepResult counts what one sweep run did.
type SweepResult struct {
	Deleted    int
	Anonymized int
	Failed     int
}

// Scheduler owns the background sweep loops. Start and Stop bracket the
// process lifetime; the Run* methods are also callable directly for one-shot
// maintenance.
type Scheduler struct {
	records    recordUsecase.UseCase
	repo       recordUsecase.Repository
	compliance complianceUsecase.UseCase
	audit      AuditRecorder
	logger     *slog.Logger
	cfg        Config
	limiter    *rate.Limiter

	retentionMu     sync.Mutex
	anonymizationMu sync.Mutex
	complianceMu    sync.Mutex

	lifecycleMu sync.Mutex
	started     bool
	cancel      context.CancelFunc
	group       *errgroup.Group
}

// New creates a scheduler. The rate limiter is shared by the retention and
// anonymization sweeps so a large backlog cannot saturate the store.
func New(
	records recordUsecase.UseCase,
	repo recordUsecase.Repository,
	compliance complianceUsecase.UseCase,
	audit AuditRecorder,
	logger *slog.Logger,
	cfg Config,
) *Scheduler {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Scheduler{
		records:    records,
		repo:       repo,
		compliance: compliance,
		audit:      audit,
		logger:     logger,
		cfg:        cfg,
		limiter:    limiter,
	}
}

// Start launches the three sweep loops. It returns immediately; the loops run
// until Stop is called or the parent context is cancelled. Idempotent: calling
// Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.started {
		s.logger.Warn("lifecycle scheduler already started")
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	group, ctx := errgroup.WithContext(ctx)
	s.group = group

	s.logger.Info("lifecycle scheduler started",
		slog.Duration("retention_interval", s.cfg.RetentionInterval),
		slog.Duration("anonymization_interval", s.cfg.AnonymizationInterval),
		slog.Duration("compliance_interval", s.cfg.ComplianceInterval),
	)

	group.Go(func() error {
		s.runLoop(ctx, "retention", s.cfg.RetentionInterval, func(ctx context.Context) error {
			_, err := s.RunRetentionSweep(ctx)
			return err
		})
		return nil
	})
	group.Go(func() error {
		s.runLoop(ctx, "anonymization", s.cfg.AnonymizationInterval, func(ctx context.Context) error {
			_, err := s.RunAnonymizationSweep(ctx)
			return err
		})
		return nil
	})
	group.Go(func() error {
		s.runLoop(ctx, "compliance", s.cfg.ComplianceInterval, func(ctx context.Context) error {
			return s.RunComplianceSweep(ctx)
		})
		return nil
	})
}

// Stop cancels the sweep loops and waits for them to drain. Idempotent, and
// the scheduler can be started again afterwards.
func (s *Scheduler) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if !s.started {
		return
	}
	s.cancel()
	_ = s.group.Wait()
	s.started = false
	s.logger.Info("lifecycle scheduler stopped")
}

// runLoop ticks the sweep at the given interval until the context ends.
func (s *Scheduler) runLoop(ctx context.Context, name string, interval time.Duration, sweep func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sweep(ctx); err != nil {
				if apperrors.Is(err, ErrSweepRunning) {
					s.logger.Warn("sweep tick skipped, previous run still active", slog.String("sweep", name))
					continue
				}
				if ctx.Err() != nil {
					return
				}
				s.logger.Error("sweep failed", slog.String("sweep", name), slog.String("error", err.Error()))
			}
		}
	}
}

// wait paces one mutation against the shared rate limit.
func (s *Scheduler) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// RunRetentionSweep deletes every record past its scheduled deletion time,
// anonymizing instead where a legal obligation forbids deletion.
func (s *Scheduler) RunRetentionSweep(ctx context.Context) (SweepResult, error) {
	if !s.retentionMu.TryLock() {
		return SweepResult{}, ErrSweepRunning
	}
	defer s.retentionMu.Unlock()

	var result SweepResult

	due, err := s.repo.ListDeletionDue(ctx, time.Now().UTC())
	if err != nil {
		return result, apperrors.Wrap(err, "failed to list deletion-due records")
	}

	for _, record := range due {
		if err := s.wait(ctx); err != nil {
			return result, err
		}

		if record.Deletable() {
			deleted, err := s.records.Delete(ctx, record.ID)
			if err != nil {
				result.Failed++
				s.logger.Error("retention sweep: delete failed",
					slog.String("record_id", record.ID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			if deleted {
				result.Deleted++
			}
			continue
		}

		if record.IsAnonymized {
			continue
		}
		anonymized, err := s.records.Anonymize(ctx, record.ID)
		if err != nil {
			result.Failed++
			s.logger.Error("retention sweep: anonymize failed",
				slog.String("record_id", record.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if anonymized {
			result.Anonymized++
		}
	}

	s.finishSweep(ctx, auditDomain.ActionRetentionSweep, "retention", result)
	return result, nil
}

// RunAnonymizationSweep anonymizes sensitive records older than 90 days and
// identifiable records older than 365 days. Other categories are untouched.
func (s *Scheduler) RunAnonymizationSweep(ctx context.Context) (SweepResult, error) {
	if !s.anonymizationMu.TryLock() {
		return SweepResult{}, ErrSweepRunning
	}
	defer s.anonymizationMu.Unlock()

	var result SweepResult
	now := time.Now().UTC()

	ages := []struct {
		category recordDomain.Category
		maxAge   time.Duration
	}{
		{recordDomain.CategorySensitive, sensitiveMaxAge},
		{recordDomain.CategoryIdentifiable, identifiableMaxAge},
	}

	for _, age := range ages {
		due, err := s.repo.ListAnonymizationDue(ctx, age.category, now.Add(-age.maxAge))
		if err != nil {
			return result, apperrors.Wrap(err, "failed to list anonymization-due records")
		}

		for _, record := range due {
			if err := s.wait(ctx); err != nil {
				return result, err
			}

			anonymized, err := s.records.Anonymize(ctx, record.ID)
			if err != nil {
				result.Failed++
				s.logger.Error("anonymization sweep: anonymize failed",
					slog.String("record_id", record.ID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			if anonymized {
				result.Anonymized++
			}
		}
	}

	s.finishSweep(ctx, auditDomain.ActionAnonymizationSweep, "anonymization", result)
	return result, nil
}

// RunComplianceSweep refreshes the compliance report. It never mutates state.
func (s *Scheduler) RunComplianceSweep(ctx context.Context) error {
	if !s.complianceMu.TryLock() {
		return ErrSweepRunning
	}
	defer s.complianceMu.Unlock()

	report, err := s.compliance.Report(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to run compliance sweep")
	}

	if !report.Overview.Compliant {
		s.logger.Warn("compliance sweep found issues",
			slog.Int("issues", len(report.ComplianceIssues)),
		)
	}
	return nil
}

// finishSweep logs the run and appends one audit entry when it changed state.
func (s *Scheduler) finishSweep(ctx context.Context, action auditDomain.Action, name string, result SweepResult) {
	s.logger.Info("sweep finished",
		slog.String("sweep", name),
		slog.Int("deleted", result.Deleted),
		slog.Int("anonymized", result.Anonymized),
		slog.Int("failed", result.Failed),
	)

	if s.audit == nil || result.Deleted+result.Anonymized+result.Failed == 0 {
		return
	}
	_ = s.audit.Record(ctx, action, "", "", map[string]any{
		"deleted":    result.Deleted,
		"anonymized": result.Anonymized,
		"failed":     result.Failed,
	})
}
