package miner

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField indicates a required field was absent or null.
	ErrMissingField = errors.New("missing required field")

	// ErrMalformed indicates a payload or field could not be decoded.
	ErrMalformed = errors.New("malformed payload")

	// ErrNullSlot indicates a null entry inside a rack row.
	ErrNullSlot = errors.New("null slot in rack row")

	// ErrDuplicateIP indicates the same miner IP appears twice in one rack.
	ErrDuplicateIP = errors.New("duplicate miner ip in rack")

	// ErrInvalidRule indicates an error catalog rule with a bad pattern.
	ErrInvalidRule = errors.New("invalid error catalog rule")
)

// FieldError ties a parse failure to the object and field it came from.
type FieldError struct {
	Object string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Object, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Object, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsMissing returns true if the error was caused by an absent required field.
func (e *FieldError) IsMissing() bool {
	return errors.Is(e.Err, ErrMissingField)
}

// IsMissingField reports whether err is a missing-field failure, and if so
// which field.
func IsMissingField(err error) (string, bool) {
	var fe *FieldError
	if errors.As(err, &fe) && fe.IsMissing() {
		return fe.Field, true
	}
	return "", errors.Is(err, ErrMissingField)
}

func missing(object, field string) error {
	return &FieldError{Object: object, Field: field, Err: ErrMissingField}
}

func malformed(object, field string, err error) error {
	return &FieldError{Object: object, Field: field, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
}
