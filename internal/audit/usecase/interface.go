// Package usecase implements the audit trail: building entries and appending
// them to the configured sink.
package usecase

import (
	"context"
	"time"

	"github.com/plantwatch/privacy/internal/audit/domain"
)

// Repository defines the interface for audit entry persistence (the sink).
type Repository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	// List returns entries ordered by created_at descending (newest first) with
	// pagination and optional time-based filtering; nil means no filter, both
	// boundaries are inclusive.
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*domain.Entry, error)
	// DeleteOlderThan removes entries created before the cutoff. With dryRun it
	// only reports how many would be removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error)
}

// UseCase defines the interface for audit trail business logic.
type UseCase interface {
	// Record appends one audit entry for the given action. The details map is
	// optional and can be nil.
	Record(ctx context.Context, action domain.Action, dataSubjectID, reason string, details map[string]any) error
	// List retrieves audit entries, newest first.
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*domain.Entry, error)
	// DeleteOlderThan removes entries older than the given number of days.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
