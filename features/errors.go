package features

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredField is returned when a field without an imputation
	// rule is null.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidValue is returned when a field holds a value of the wrong kind,
	// e.g. text in a numeric column.
	ErrInvalidValue = errors.New("invalid value")
	// ErrSchemaBuild is returned when a canonical schema cannot be derived from
	// the reference population.
	ErrSchemaBuild = errors.New("schema build failed")
	// ErrSchemaMismatch is returned when a vector or model does not line up with
	// the schema it is used against.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// FieldError ties an error to the record field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
