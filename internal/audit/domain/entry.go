// Package domain defines the audit trail model. Entries are append-only and
// forwarded to a pluggable sink; the engine itself never queries them to make
// decisions.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action labels the engine operation an audit entry records.
type Action string

const (
	// ActionDataRecorded is emitted when a personal-data record is created.
	ActionDataRecorded Action = "data_recorded"
	// ActionDataErasure is emitted when a right-to-be-forgotten request completes.
	ActionDataErasure Action = "data_erasure"
	// ActionDataExport is emitted when a data-portability export completes.
	ActionDataExport Action = "data_export"
	// ActionConsentRecorded is emitted when a consent decision is stored.
	ActionConsentRecorded Action = "consent_recorded"
	// ActionConsentWithdrawn is emitted when a subject's consents are withdrawn.
	ActionConsentWithdrawn Action = "consent_withdrawn"
	// ActionRetentionSweep is emitted once per retention sweep run.
	ActionRetentionSweep Action = "retention_sweep"
	// ActionAnonymizationSweep is emitted once per auto-anonymization sweep run.
	ActionAnonymizationSweep Action = "anonymization_sweep"
)

// Entry records one engine action for compliance monitoring.
type Entry struct {
	ID            uuid.UUID
	Action        Action
	DataSubjectID string
	Reason        string
	Details       map[string]any
	CreatedAt     time.Time
}
