package contact

import (
	"errors"

	"github.com/tartampluch/go-contactbook/internal/config"
)

// Error classes. Concrete errors wrap one of them so callers can branch
// with errors.Is.
var (
	ErrValidation = errors.New(config.ErrValidation)
	ErrNotFound   = errors.New(config.ErrNotFound)
)

// Lookup failures.
var (
	ErrPhoneNotFound   = &lookupError{msg: config.ErrPhoneNotFound}
	ErrContactNotFound = &lookupError{msg: config.ErrContactNotFound}
	ErrNoBirthday      = &lookupError{msg: config.ErrNoBirthday}
)

// Iteration failures.
var (
	ErrExhausted              = errors.New(config.ErrExhausted)
	ErrConcurrentModification = errors.New(config.ErrConcurrentMod)
)

// ValidationError reports a raw value rejected by a field validator.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, value, msg string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Msg: msg}
}

type lookupError struct {
	msg string
}

func (e *lookupError) Error() string { return e.msg }

func (e *lookupError) Unwrap() error { return ErrNotFound }

// Field names carried by ValidationError.
const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldBirthday = "birthday"
	FieldBatch    = "batch_size"
)
