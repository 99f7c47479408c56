// Package usecase implements the data-subject-rights workflows: erasure
// (right to be forgotten) and data-portability export.
package usecase

import (
	"context"

	auditDomain "github.com/plantwatch/privacy/internal/audit/domain"
	"github.com/plantwatch/privacy/internal/dsr/domain"
)

// AuditRecorder forwards workflow completions to the audit sink.
type AuditRecorder interface {
	Record(ctx context.Context, action auditDomain.Action, dataSubjectID, reason string, details map[string]any) error
}

// ErasureUseCase defines the interface for right-to-be-forgotten requests.
type ErasureUseCase interface {
	// Erase deletes or anonymizes every personal-data record of the subject
	// (legal-obligation records are anonymized, never deleted), withdraws all
	// consents, and appends one audit entry with the resulting counts.
	Erase(ctx context.Context, dataSubjectID, reason string) (*domain.ErasureResult, error)
}

// ExportUseCase defines the interface for data-portability requests.
type ExportUseCase interface {
	// Export collects every non-deleted record and the consent history of the
	// subject. The format string is carried through as metadata.
	Export(ctx context.Context, dataSubjectID, format string) (*domain.Export, error)
}
