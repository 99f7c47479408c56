// Package domain defines the data-subject-rights payloads: the outcome of an
// erasure request and the data-portability export.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErasureResult is the outcome of one right-to-be-forgotten request.
//
// Counts reflect what actually happened: records already mutated before a
// mid-loop failure stay mutated, there is no rollback.
type ErasureResult struct {
	DataSubjectID     string    `json:"dataSubjectId"`
	Success           bool      `json:"success"`
	DeletedRecords    int       `json:"deletedRecords"`
	AnonymizedRecords int       `json:"anonymizedRecords"`
	WithdrawnConsents int64     `json:"withdrawnConsents"`
	Errors            []string  `json:"errors,omitempty"`
	ProcessedAt       time.Time `json:"processedAt"`
}

// ExportRecord is one personal-data record in an export payload. Value is the
// anonymized value for anonymized records and the decrypted original otherwise.
type ExportRecord struct {
	ID           uuid.UUID `json:"id"`
	Field        string    `json:"field"`
	Value        string    `json:"value"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
	IsAnonymized bool      `json:"isAnonymized"`
}

// ExportConsent is one consent history entry in an export payload.
type ExportConsent struct {
	Purpose        string    `json:"purpose"`
	ConsentGiven   bool      `json:"consentGiven"`
	Timestamp      time.Time `json:"timestamp"`
	IsActive       bool      `json:"isActive"`
	DataCategories []string  `json:"dataCategories,omitempty"`
}

// Export is the data-portability payload for one data subject. Format is
// carried as metadata only; serialization into CSV or XML bytes is a
// presentation concern outside the engine.
//
// Records whose value could not be revealed are skipped, with the failure
// collected in Errors, so one corrupt record never blocks the rest of the
// export.
type Export struct {
	DataSubjectID   string          `json:"dataSubjectId"`
	PersonalData    []ExportRecord  `json:"personalData"`
	Consents        []ExportConsent `json:"consents"`
	Errors          []string        `json:"errors,omitempty"`
	Format          string          `json:"format"`
	ExportTimestamp time.Time       `json:"exportTimestamp"`
}
