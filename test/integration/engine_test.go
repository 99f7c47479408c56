// Package integration provides end-to-end tests of the governance engine
// assembled through the DI container: recording personal data and consents,
// erasure, export, compliance reporting and the lifecycle sweeps.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantwatch/privacy/internal/app"
	auditDomain "github.com/plantwatch/privacy/internal/audit/domain"
	"github.com/plantwatch/privacy/internal/config"
	consentUsecase "github.com/plantwatch/privacy/internal/consent/usecase"
	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
	recordUsecase "github.com/plantwatch/privacy/internal/personaldata/usecase"
)

// newEngine assembles the full engine on the memory backend with an ephemeral
// data key, so the whole lifecycle runs without external services.
func newEngine(t *testing.T) *app.Container {
	t.Helper()

	cfg := &config.Config{
		LogLevel:                   "error",
		StoreBackend:               "memory",
		DataKeyAlgorithm:           "aes-gcm",
		RetentionSweepInterval:     time.Hour,
		AnonymizationSweepInterval: time.Hour,
		ComplianceSweepInterval:    time.Hour,
		SweepRateLimit:             1000,
		SweepRateBurst:             100,
		MetricsNamespace:           "privacy",
		MetricsPort:                8081,
	}

	container := app.NewContainer(cfg)
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, container.Shutdown(shutdownCtx))
	})

	return container
}

func TestEngineSubjectLifecycle(t *testing.T) {
	ctx := context.Background()
	container := newEngine(t)

	records, err := container.RecordUseCase()
	require.NoError(t, err)
	consents, err := container.ConsentUseCase()
	require.NoError(t, err)
	erasure, err := container.ErasureUseCase()
	require.NoError(t, err)
	exporter, err := container.ExportUseCase()
	require.NoError(t, err)
	compliance, err := container.ComplianceUseCase()
	require.NoError(t, err)
	audit, err := container.AuditUseCase()
	require.NoError(t, err)

	const subjectID = "operator-17"
	consentAt := time.Now().UTC().Add(-time.Hour)

	// Record three fields under different legal bases.
	emailRecord, err := records.Record(ctx, recordUsecase.RecordInput{
		DataSubjectID:    subjectID,
		FieldName:        "email",
		Value:            "k.tanaka@plant.example",
		Category:         recordDomain.CategoryIdentifiable,
		LegalBasis:       recordDomain.LegalBasisConsent,
		ConsentTimestamp: &consentAt,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, emailRecord.EncryptedValue)
	assert.NotEqual(t, "k.tanaka@plant.example", emailRecord.EncryptedValue)
	assert.False(t, emailRecord.IsAnonymized)

	_, err = records.Record(ctx, recordUsecase.RecordInput{
		DataSubjectID: subjectID,
		FieldName:     "shiftLog",
		Value:         "2026-08-29 night shift, line 3",
		Category:      recordDomain.CategoryOperational,
		LegalBasis:    recordDomain.LegalBasisLegitimateInterest,
	})
	require.NoError(t, err)

	nameRecord, err := records.Record(ctx, recordUsecase.RecordInput{
		DataSubjectID: subjectID,
		FieldName:     "name",
		Value:         "Kaoru Tanaka",
		Category:      recordDomain.CategoryIdentifiable,
		LegalBasis:    recordDomain.LegalBasisLegalObligation,
	})
	require.NoError(t, err)

	// The stored value round-trips through the cipher.
	revealed, err := records.RevealValue(emailRecord)
	require.NoError(t, err)
	assert.Equal(t, "k.tanaka@plant.example", revealed)

	// An active consent keeps the subject compliant.
	consent, err := consents.Record(ctx, consentUsecase.ConsentInput{
		DataSubjectID:  subjectID,
		Purpose:        "analytics",
		LegalBasis:     recordDomain.LegalBasisConsent,
		ConsentGiven:   true,
		DataCategories: []string{"identifiable", "operational"},
		Source:         "dashboard",
	})
	require.NoError(t, err)
	assert.True(t, consent.IsActive)

	check, err := compliance.Check(ctx)
	require.NoError(t, err)
	assert.True(t, check.Compliant)
	assert.Empty(t, check.Issues)

	// Export carries every live record and the consent history.
	export, err := exporter.Export(ctx, subjectID, "json")
	require.NoError(t, err)
	assert.Equal(t, subjectID, export.DataSubjectID)
	assert.Len(t, export.PersonalData, 3)
	assert.Len(t, export.Consents, 1)
	assert.Equal(t, "json", export.Format)

	// Right to be forgotten: deletable records go, the legal-obligation
	// record is anonymized, the consent is withdrawn.
	result, err := erasure.Erase(ctx, subjectID, "data subject request")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.DeletedRecords)
	assert.Equal(t, 1, result.AnonymizedRecords)
	assert.Equal(t, int64(1), result.WithdrawnConsents)

	remaining, err := records.ListBySubject(ctx, subjectID)
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	for _, record := range remaining {
		if record.ID == nameRecord.ID {
			assert.False(t, record.IsDeleted)
			assert.True(t, record.IsAnonymized)
			assert.Empty(t, record.EncryptedValue)
			assert.NotEqual(t, "Kaoru Tanaka", record.AnonymizedValue)
			continue
		}
		assert.True(t, record.IsDeleted)
		assert.Empty(t, record.EncryptedValue)
		assert.Empty(t, record.AnonymizedValue)
	}

	// Deleted records drop out of exports; the anonymized one stays.
	export, err = exporter.Export(ctx, subjectID, "json")
	require.NoError(t, err)
	require.Len(t, export.PersonalData, 1)
	assert.True(t, export.PersonalData[0].IsAnonymized)

	// With no recoverable identifiable data left the subject is compliant
	// again even though all consents are withdrawn.
	check, err = compliance.Check(ctx)
	require.NoError(t, err)
	assert.True(t, check.Compliant)

	report, err := compliance.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DataSubjects)
	assert.Equal(t, 3, report.PersonalDataRecords)
	assert.Equal(t, 1, report.AnonymizedRecords)
	assert.Equal(t, 2, report.DeletedRecords)
	assert.Equal(t, int64(0), report.ActiveConsents)

	// The audit trail recorded the whole lifecycle.
	entries, err := audit.List(ctx, 0, 50, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	actions := make(map[auditDomain.Action]int)
	for _, entry := range entries {
		actions[entry.Action]++
	}
	assert.Equal(t, 3, actions[auditDomain.ActionDataRecorded])
	assert.Equal(t, 1, actions[auditDomain.ActionConsentRecorded])
	assert.Equal(t, 1, actions[auditDomain.ActionConsentWithdrawn])
	assert.Equal(t, 1, actions[auditDomain.ActionDataErasure])
	assert.Equal(t, 2, actions[auditDomain.ActionDataExport])
}

func TestEngineLifecycleSweeps(t *testing.T) {
	ctx := context.Background()
	container := newEngine(t)

	records, err := container.RecordUseCase()
	require.NoError(t, err)
	sched, err := container.Scheduler()
	require.NoError(t, err)

	// A freshly recorded value is inside its retention window, so the
	// sweeps pass over it without touching anything.
	_, err = records.Record(ctx, recordUsecase.RecordInput{
		DataSubjectID:         "operator-41",
		FieldName:             "ipAddress",
		Value:                 "10.20.30.41",
		Category:              recordDomain.CategoryTechnical,
		LegalBasis:            recordDomain.LegalBasisLegitimateInterest,
		RetentionDaysOverride: 1,
	})
	require.NoError(t, err)

	retention, err := sched.RunRetentionSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, retention.Deleted)

	anonymization, err := sched.RunAnonymizationSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, anonymization.Failed)

	require.NoError(t, sched.RunComplianceSweep(ctx))
}
