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

// PostgreSQLEntryRepository implements audit entry persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLEntryRepository struct {
	db *sql.DB
}

// Create inserts a new audit entry. Nil details are stored as NULL.
func (p *PostgreSQLEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, p.db)

	var detailsJSON []byte
	var err error

	if entry.Details != nil {
		detailsJSON, err = json.Marshal(entry.Details)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit entry details")
		}
	}

	query := `INSERT INTO audit_entries (id, action, data_subject_id, reason, details, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
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
func (p *PostgreSQLEntryRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, action, data_subject_id, reason, details, created_at
			  FROM audit_entries
			  WHERE ($1::timestamptz IS NULL OR created_at >= $1)
				AND ($2::timestamptz IS NULL OR created_at <= $2)
			  ORDER BY created_at DESC, id DESC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, createdAtFrom, createdAtTo, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}

	return collectEntries(rows)
}

// DeleteOlderThan removes entries created before the cutoff. With dryRun set
// it only counts the candidates.
func (p *PostgreSQLEntryRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM audit_entries WHERE created_at < $1`

		var count int64
		if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count old audit entries")
		}
		return count, nil
	}

	query := `DELETE FROM audit_entries WHERE created_at < $1`

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

// collectEntries drains rows into entries, closing the result set.
func collectEntries(rows *sql.Rows) ([]*domain.Entry, error) {
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		var entry domain.Entry
		var action string
		var detailsJSON []byte

		err := rows.Scan(
			&entry.ID,
			&action,
			&entry.DataSubjectID,
			&entry.Reason,
			&detailsJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}

		entry.Action = domain.Action(action)

		if detailsJSON != nil {
			if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit entry details")
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

// NewPostgreSQLEntryRepository creates a new PostgreSQL audit entry repository.
func NewPostgreSQLEntryRepository(db *sql.DB) *PostgreSQLEntryRepository {
	return &PostgreSQLEntryRepository{db: db}
}
