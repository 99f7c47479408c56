package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/plantwatch/privacy/internal/consent/domain"
	"github.com/plantwatch/privacy/internal/database"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
)

// consentColumns is the canonical column list shared by both SQL backends.
const consentColumns = `id, data_subject_id, purpose, legal_basis, consent_given, consent_timestamp,
		withdrawn_at, source, ip_address, user_agent, data_categories,
		retention_period_days, is_active, version, created_at`

// PostgreSQLConsentRepository implements consent persistence for PostgreSQL.
type PostgreSQLConsentRepository struct {
	db *sql.DB
}

// Create inserts a new consent record.
func (p *PostgreSQLConsentRepository) Create(ctx context.Context, consent *domain.ConsentRecord) error {
	querier := database.GetTx(ctx, p.db)

	categoriesJSON, err := marshalCategories(consent.DataCategories)
	if err != nil {
		return err
	}

	query := `INSERT INTO consent_records (` + consentColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = querier.ExecContext(
		ctx,
		query,
		consent.ID,
		consent.DataSubjectID,
		consent.Purpose,
		string(consent.LegalBasis),
		consent.ConsentGiven,
		consent.ConsentTimestamp,
		consent.WithdrawnAt,
		consent.Source,
		consent.IPAddress,
		consent.UserAgent,
		categoriesJSON,
		consent.RetentionPeriodDays,
		consent.IsActive,
		consent.Version,
		consent.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create consent record")
	}

	return nil
}

// ListBySubject retrieves all consent records of the subject, oldest first.
func (p *PostgreSQLConsentRepository) ListBySubject(
	ctx context.Context,
	dataSubjectID string,
) ([]*domain.ConsentRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + consentColumns + `
			  FROM consent_records
			  WHERE data_subject_id = $1
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consent records")
	}

	return collectConsents(rows)
}

// WithdrawAll withdraws every active consent of the subject in one statement.
func (p *PostgreSQLConsentRepository) WithdrawAll(
	ctx context.Context,
	dataSubjectID string,
	withdrawnAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE consent_records
			  SET withdrawn_at = $1, is_active = FALSE
			  WHERE data_subject_id = $2 AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, withdrawnAt, dataSubjectID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to withdraw consents")
	}

	withdrawn, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count withdrawn consents")
	}

	return withdrawn, nil
}

// CountActive returns the number of active consents across all subjects.
func (p *PostgreSQLConsentRepository) CountActive(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM consent_records WHERE is_active = TRUE`

	var count int64
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count active consents")
	}
	return count, nil
}

// CountActiveBySubject returns the number of active consents of one subject.
func (p *PostgreSQLConsentRepository) CountActiveBySubject(
	ctx context.Context,
	dataSubjectID string,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM consent_records WHERE data_subject_id = $1 AND is_active = TRUE`

	var count int64
	if err := querier.QueryRowContext(ctx, query, dataSubjectID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count active consents")
	}
	return count, nil
}

// marshalCategories encodes the data categories set, storing nil as NULL.
func marshalCategories(categories []string) ([]byte, error) {
	if categories == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal consent data categories")
	}
	return encoded, nil
}

// collectConsents drains rows into consent records, closing the result set.
func collectConsents(rows *sql.Rows) ([]*domain.ConsentRecord, error) {
	defer func() {
		_ = rows.Close()
	}()

	consents := make([]*domain.ConsentRecord, 0)
	for rows.Next() {
		var consent domain.ConsentRecord
		var legalBasis string
		var categoriesJSON []byte

		err := rows.Scan(
			&consent.ID,
			&consent.DataSubjectID,
			&consent.Purpose,
			&legalBasis,
			&consent.ConsentGiven,
			&consent.ConsentTimestamp,
			&consent.WithdrawnAt,
			&consent.Source,
			&consent.IPAddress,
			&consent.UserAgent,
			&categoriesJSON,
			&consent.RetentionPeriodDays,
			&consent.IsActive,
			&consent.Version,
			&consent.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan consent record")
		}

		consent.LegalBasis = recordDomain.LegalBasis(legalBasis)

		if categoriesJSON != nil {
			if err := json.Unmarshal(categoriesJSON, &consent.DataCategories); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal consent data categories")
			}
		}

		consents = append(consents, &consent)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate consent records")
	}

	return consents, nil
}

// NewPostgreSQLConsentRepository creates a new PostgreSQL consent repository.
func NewPostgreSQLConsentRepository(db *sql.DB) *PostgreSQLConsentRepository {
	return &PostgreSQLConsentRepository{db: db}
}
