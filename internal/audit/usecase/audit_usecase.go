package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/plantwatch/privacy/internal/audit/domain"
	apperrors "github.com/plantwatch/privacy/internal/errors"
)

// auditUseCase implements the UseCase interface for recording audit entries.
type auditUseCase struct {
	repo Repository
}

// NewUseCase creates a new audit use case with the provided sink.
func NewUseCase(repo Repository) UseCase {
	return &auditUseCase{repo: repo}
}

// Record appends one audit entry. Generates a unique UUIDv7 identifier and a
// UTC timestamp; the details map is stored as-is.
func (a *auditUseCase) Record(
	ctx context.Context,
	action domain.Action,
	dataSubjectID, reason string,
	details map[string]any,
) error {
	entry := &domain.Entry{
		ID:            uuid.Must(uuid.NewV7()),
		Action:        action,
		DataSubjectID: dataSubjectID,
		Reason:        reason,
		Details:       details,
		CreatedAt:     time.Now().UTC(),
	}

	if err := a.repo.Create(ctx, entry); err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

// List retrieves audit entries ordered by created_at descending.
func (a *auditUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*domain.Entry, error) {
	entries, err := a.repo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	return entries, nil
}

// DeleteOlderThan removes audit entries older than the given number of days.
func (a *auditUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	count, err := a.repo.DeleteOlderThan(ctx, cutoff, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit entries")
	}
	return count, nil
}
