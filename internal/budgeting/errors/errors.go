package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const NonFieldErrors = "non_field_errors"

var (
	ErrNoBudgetAccess = errors.New("User does not have access to Budget.")
	ErrNotFound       = errors.New("Not found.")
	// ErrDuplicate is returned by repositories when a unique index rejects a write.
	ErrDuplicate = errors.New("record violates a unique constraint")
)

// ValidationError maps a field name (or NonFieldErrors) to its messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// OrNil returns nil when no message was collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func NewFieldError(field, msg string) error {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func NewNonFieldError(msg string) error {
	return NewFieldError(NonFieldErrors, msg)
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

func AsValidationError(err error) (*ValidationError, bool) {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return validationError, ok
}

// Field level messages.
func RequiredMsg() string {
	return "This field is required."
}

func MaxLengthMsg(max int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", max)
}

func InvalidChoiceMsg(value interface{}) string {
	return fmt.Sprintf("\"%v\" is not a valid choice.", value)
}
