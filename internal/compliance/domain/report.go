// Package domain defines the compliance check and report payloads consumed by
// the dashboard poll loop.
package domain

import "time"

// Issue is one detected compliance violation, always tied to a data subject.
type Issue struct {
	DataSubjectID  string `json:"dataSubjectId"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// CheckResult is the outcome of one compliance rule evaluation pass.
type CheckResult struct {
	Compliant       bool      `json:"compliant"`
	Issues          []Issue   `json:"issues"`
	Recommendations []string  `json:"recommendations"`
	CheckedAt       time.Time `json:"checkedAt"`
}

// Overview summarizes the latest check for the dashboard header.
type Overview struct {
	Compliant bool      `json:"compliant"`
	LastCheck time.Time `json:"lastCheck"`
}

// Report aggregates store-wide counts with the latest check result.
//
// Record counts include deleted and anonymized records; soft-deleted records
// are excluded only from exports, never from counts. AnonymizedPercent is
// AnonymizedRecords over PersonalDataRecords, zero when the store is empty.
type Report struct {
	Overview            Overview  `json:"overview"`
	DataSubjects        int       `json:"dataSubjects"`
	PersonalDataRecords int       `json:"personalDataRecords"`
	AnonymizedRecords   int       `json:"anonymizedRecords"`
	DeletedRecords      int       `json:"deletedRecords"`
	ActiveConsents      int64     `json:"activeConsents"`
	AnonymizedPercent   float64   `json:"anonymizedPercent"`
	ComplianceIssues    []string  `json:"complianceIssues"`
	Recommendations     []string  `json:"recommendations"`
	LastAuditDate       time.Time `json:"lastAuditDate"`
}
