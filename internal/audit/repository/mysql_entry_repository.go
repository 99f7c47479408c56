package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/plantwatch/privacy/internal/audit/domain"
	"github.com/plantwatch/privacy/internal/database"
	apperrors "github.com/plantwatch/privacy/internal/errors"
)

// MySQLEntryRepository implements audit entry persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLEntryRepository struct {
	db *sql.DB
}

// Create inserts a new audit entry. Nil details are stored as NULL.
func (m *MySQLEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, m.db)

	var detailsJSON []byte
	var err error

	if entry.Details != nil {
		detailsJSON, err = json.Marshal(entry.Details)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit entry details")
		}
	}

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	query := `INSERT INTO audit_entries (id, action, data_subject_id, reason, details, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		string(entry.Action),
		entry.DataSubjectID,
		entry.Reason,
		detailsJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	return nil
}

// List retrieves audit entries newest first with pagination and optional
// inclusive created-at boundaries.
func (m *MySQLEntryRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, action, data_subject_id, reason, details, created_at
			  FROM audit_entries
			  WHERE (? IS NULL OR created_at >= ?)
				AND (? IS NULL OR created_at <= ?)
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(
		ctx,
		query,
		createdAtFrom, createdAtFrom,
		createdAtTo, createdAtTo,
		limit, offset,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}

	return collectEntries(rows)
}

// DeleteOlderThan removes entries created before the cutoff. With dryRun set
// it only counts the candidates.
func (m *MySQLEntryRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM audit_entries WHERE created_at < ?`

		var count int64
		if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count old audit entries")
		}
		return count, nil
	}

	query := `DELETE FROM audit_entries WHERE created_at < ?`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete old audit entries")
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted audit entries")
	}

	return removed, nil
}

// NewMySQLEntryRepository creates a new MySQL audit entry repository.
func NewMySQLEntryRepository(db *sql.DB) *MySQLEntryRepository {
	return &MySQLEntryRepository{db: db}
}
