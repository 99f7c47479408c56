package domain

// Category classifies how identifying a personal-data field is. The category
// drives the default retention period and which lifecycle sweeps may touch the
// record.
type Category string

const (
	// CategoryIdentifiable directly identifies a natural person (name, email).
	CategoryIdentifiable Category = "identifiable"
	// CategorySensitive is special-category data (health, precise location).
	CategorySensitive Category = "sensitive"
	// CategoryOperational is personal data tied to plant operations (shift logs).
	CategoryOperational Category = "operational"
	// CategoryTechnical is device/session data (IP addresses, user agents).
	CategoryTechnical Category = "technical"
	// CategoryAnonymous carries no identification risk on its own.
	CategoryAnonymous Category = "anonymous"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryIdentifiable, CategorySensitive, CategoryOperational,
		CategoryTechnical, CategoryAnonymous:
		return true
	}
	return false
}

// Default retention periods in days per category.
const (
	retentionIdentifiable = 2555
	retentionSensitive    = 1095
	retentionOperational  = 1825
	retentionTechnical    = 365
	retentionDefault      = 730
)

// DefaultRetentionDays returns the retention period applied when a record is
// created without an explicit override.
func (c Category) DefaultRetentionDays() int {
	switch c {
	case CategoryIdentifiable:
		return retentionIdentifiable
	case CategorySensitive:
		return retentionSensitive
	case CategoryOperational:
		return retentionOperational
	case CategoryTechnical:
		return retentionTechnical
	default:
		return retentionDefault
	}
}

// LegalBasis is the recognized justification for processing a record. It gates
// whether the record may be purged or only anonymized.
type LegalBasis string

const (
	LegalBasisConsent            LegalBasis = "consent"
	LegalBasisContract           LegalBasis = "contract"
	LegalBasisLegalObligation    LegalBasis = "legal-obligation"
	LegalBasisVitalInterest      LegalBasis = "vital-interest"
	LegalBasisPublicTask         LegalBasis = "public-task"
	LegalBasisLegitimateInterest LegalBasis = "legitimate-interest"
)

// Valid reports whether the legal basis is one of the known values.
func (l LegalBasis) Valid() bool {
	switch l {
	case LegalBasisConsent, LegalBasisContract, LegalBasisLegalObligation,
		LegalBasisVitalInterest, LegalBasisPublicTask, LegalBasisLegitimateInterest:
		return true
	}
	return false
}
