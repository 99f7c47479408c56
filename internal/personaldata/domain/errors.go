package domain

import (
	"github.com/plantwatch/privacy/internal/errors"
)

// Personal-data error definitions wrapping the standard domain errors.
var (
	// ErrRecordNotFound indicates no record exists with the given id.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "personal data record not found")

	// ErrInvalidCategory indicates an unknown data category.
	ErrInvalidCategory = errors.Wrap(errors.ErrInvalidInput, "invalid data category")

	// ErrInvalidLegalBasis indicates an unknown legal basis.
	ErrInvalidLegalBasis = errors.Wrap(errors.ErrInvalidInput, "invalid legal basis")
)
