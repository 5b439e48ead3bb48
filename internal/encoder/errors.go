package encoder

import (
	"fmt"
	"strings"
)

// ErrorKind вид ошибки валидации запроса
type ErrorKind string

const (
	InvalidCategory ErrorKind = "invalid_category"
	InvalidType     ErrorKind = "invalid_type"
	MissingField    ErrorKind = "missing_field"
	UnknownField    ErrorKind = "unknown_field"
	OutOfRange      ErrorKind = "out_of_range"
	InvalidRequest  ErrorKind = "invalid_request"
)

// ValidationError ошибка валидации или кодирования запроса.
// Всегда возникает до обращения к модели.
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Value   interface{}
	Allowed []string
	Reason  string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidCategory:
		return fmt.Sprintf("invalid category for field %q: %v (allowed: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
	case InvalidType:
		return fmt.Sprintf("field %q must be %s, got %v", e.Field, e.Reason, e.Value)
	case MissingField:
		return fmt.Sprintf("missing required field %q", e.Field)
	case UnknownField:
		return fmt.Sprintf("unknown field %q", e.Field)
	case OutOfRange:
		return fmt.Sprintf("field %q out of range: %v (%s)", e.Field, e.Value, e.Reason)
	default:
		return e.Reason
	}
}

func invalidType(field string, value interface{}, want string) *ValidationError {
	return &ValidationError{Kind: InvalidType, Field: field, Value: value, Reason: want}
}

func outOfRange(field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{Kind: OutOfRange, Field: field, Value: value, Reason: reason}
}
