// Package domain defines the consent model: one record per consent decision,
// append-only except for withdrawal.
package domain

import (
	"time"

	"github.com/google/uuid"

	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
)

// DefaultRetentionDays is the consent retention period applied when the
// caller supplies no override.
const DefaultRetentionDays = 730

// ConsentRecord is one consent grant or refusal event for a data subject.
//
// IsActive is ConsentGiven while WithdrawnAt is unset. It transitions from
// true to false exactly once, when the consent is withdrawn, and never
// reverses.
type ConsentRecord struct {
	// ID is the unique identifier for the consent record.
	ID uuid.UUID
	// DataSubjectID identifies the natural person giving or refusing consent.
	DataSubjectID string
	// Purpose is what the data subject consented to (e.g., "shift-analytics").
	Purpose string
	// LegalBasis is the processing justification the consent supports.
	LegalBasis recordDomain.LegalBasis
	// ConsentGiven records whether consent was granted or refused.
	ConsentGiven bool
	// ConsentTimestamp is when the decision was made.
	ConsentTimestamp time.Time
	// WithdrawnAt is when the consent was withdrawn (nil while active).
	WithdrawnAt *time.Time
	// Source records where the decision was collected (form, import, api).
	Source string
	// IPAddress optionally records the client address at collection time.
	IPAddress string
	// UserAgent optionally records the client user agent at collection time.
	UserAgent string
	// DataCategories lists the data categories the consent covers.
	DataCategories []string
	// RetentionPeriodDays is how long the consent record itself is kept.
	RetentionPeriodDays int
	// IsActive is ConsentGiven and not withdrawn.
	IsActive bool
	// Version tracks the consent-text version presented to the subject.
	Version int
	// CreatedAt is the UTC timestamp when the record was stored.
	CreatedAt time.Time
}

// Withdraw marks the consent as withdrawn. Reports false when the consent was
// not active; withdrawn consents are never re-activated.
func (c *ConsentRecord) Withdraw(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	c.WithdrawnAt = &now
	c.IsActive = false
	return true
}
