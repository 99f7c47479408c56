package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/plantwatch/privacy/internal/errors"
)

func TestSubjectID(t *testing.T) {
	t.Run("valid identifiers", func(t *testing.T) {
		for _, id := range []string{
			"user-123",
			"operator.42",
			"plant:berlin:shift-a",
			"a",
			"A" + strings.Repeat("b", 127),
		} {
			assert.NoError(t, SubjectID(id), "id %q", id)
		}
	})

	t.Run("invalid identifiers", func(t *testing.T) {
		for _, id := range []string{
			"-leading-dash",
			"has space",
			"semi;colon",
			"A" + strings.Repeat("b", 128),
		} {
			assert.Error(t, SubjectID(id), "id %q", id)
		}
	})

	t.Run("empty string deferred to Required", func(t *testing.T) {
		assert.NoError(t, SubjectID(""))
	})

	t.Run("non-string value", func(t *testing.T) {
		assert.Error(t, SubjectID(42))
	})
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
