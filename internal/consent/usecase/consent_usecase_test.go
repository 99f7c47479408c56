package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/plantwatch/privacy/internal/audit/domain"
	"github.com/plantwatch/privacy/internal/consent/repository"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
)

type auditSpy struct {
	mu      sync.Mutex
	actions []auditDomain.Action
}

func (a *auditSpy) Record(
	_ context.Context,
	action auditDomain.Action,
	_ string,
	_ string,
	_ map[string]any,
) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

func (a *auditSpy) recorded() []auditDomain.Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]auditDomain.Action(nil), a.actions...)
}

func validInput() ConsentInput {
	return ConsentInput{
		DataSubjectID:  "employee-42",
		Purpose:        "shift-analytics",
		LegalBasis:     recordDomain.LegalBasisConsent,
		ConsentGiven:   true,
		DataCategories: []string{"identifiable", "operational"},
		Source:         "dashboard-form",
	}
}

func TestRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a granted consent as active", func(t *testing.T) {
		spy := &auditSpy{}
		uc := NewUseCase(repository.NewMemoryRepository(), spy)

		consent, err := uc.Record(ctx, validInput())
		require.NoError(t, err)

		assert.True(t, consent.ConsentGiven)
		assert.True(t, consent.IsActive)
		assert.Nil(t, consent.WithdrawnAt)
		assert.Equal(t, 730, consent.RetentionPeriodDays)
		assert.Equal(t, 1, consent.Version)
		assert.False(t, consent.ConsentTimestamp.IsZero())

		assert.Equal(t, []auditDomain.Action{auditDomain.ActionConsentRecorded}, spy.recorded())
	})

	t.Run("stores a refused consent as inactive", func(t *testing.T) {
		uc := NewUseCase(repository.NewMemoryRepository(), nil)

		input := validInput()
		input.ConsentGiven = false

		consent, err := uc.Record(ctx, input)
		require.NoError(t, err)
		assert.False(t, consent.IsActive)
		assert.Nil(t, consent.WithdrawnAt)
	})

	t.Run("retention override wins", func(t *testing.T) {
		uc := NewUseCase(repository.NewMemoryRepository(), nil)

		input := validInput()
		input.RetentionDaysOverride = 90

		consent, err := uc.Record(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, 90, consent.RetentionPeriodDays)
	})

	t.Run("validation failures", func(t *testing.T) {
		uc := NewUseCase(repository.NewMemoryRepository(), nil)

		tests := []struct {
			name   string
			mutate func(input *ConsentInput)
		}{
			{"empty subject id", func(input *ConsentInput) { input.DataSubjectID = "" }},
			{"invalid subject id", func(input *ConsentInput) { input.DataSubjectID = "bad subject!" }},
			{"empty purpose", func(input *ConsentInput) { input.Purpose = "" }},
			{"empty source", func(input *ConsentInput) { input.Source = "" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				input := validInput()
				tt.mutate(&input)

				_, err := uc.Record(ctx, input)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			})
		}
	})

	t.Run("rejects unknown legal basis", func(t *testing.T) {
		uc := NewUseCase(repository.NewMemoryRepository(), nil)

		input := validInput()
		input.LegalBasis = "because"

		_, err := uc.Record(ctx, input)
		assert.ErrorIs(t, err, recordDomain.ErrInvalidLegalBasis)
	})
}

func TestWithdrawAll(t *testing.T) {
	ctx := context.Background()

	t.Run("withdraws every active consent exactly once", func(t *testing.T) {
		spy := &auditSpy{}
		repo := repository.NewMemoryRepository()
		uc := NewUseCase(repo, spy)

		_, err := uc.Record(ctx, validInput())
		require.NoError(t, err)

		second := validInput()
		second.Purpose = "health-screening"
		_, err = uc.Record(ctx, second)
		require.NoError(t, err)

		withdrawn, err := uc.WithdrawAll(ctx, "employee-42")
		require.NoError(t, err)
		assert.Equal(t, int64(2), withdrawn)

		consents, err := uc.ListBySubject(ctx, "employee-42")
		require.NoError(t, err)
		for _, consent := range consents {
			assert.False(t, consent.IsActive)
			assert.NotNil(t, consent.WithdrawnAt)
		}

		// Withdrawal never reverses and never repeats.
		withdrawn, err = uc.WithdrawAll(ctx, "employee-42")
		require.NoError(t, err)
		assert.Zero(t, withdrawn)

		actions := spy.recorded()
		assert.Equal(t, []auditDomain.Action{
			auditDomain.ActionConsentRecorded,
			auditDomain.ActionConsentRecorded,
			auditDomain.ActionConsentWithdrawn,
		}, actions)
	})

	t.Run("requires a subject id", func(t *testing.T) {
		uc := NewUseCase(repository.NewMemoryRepository(), nil)

		_, err := uc.WithdrawAll(ctx, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("counting active consents tracks withdrawal", func(t *testing.T) {
		uc := NewUseCase(repository.NewMemoryRepository(), nil)

		_, err := uc.Record(ctx, validInput())
		require.NoError(t, err)

		count, err := uc.CountActiveBySubject(ctx, "employee-42")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		_, err = uc.WithdrawAll(ctx, "employee-42")
		require.NoError(t, err)

		count, err = uc.CountActive(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
