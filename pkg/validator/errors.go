package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinels for the per-field failure taxonomy. Every FieldError unwraps to
// exactly one of them.
var (
	ErrMissingValue        = errors.New("missing value")
	ErrTypeCoercion        = errors.New("type coercion failed")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidEnumValue    = errors.New("invalid enum value")
)

// ErrorType classifies a FieldError.
type ErrorType string

const (
	MissingValue        ErrorType = "missing"
	TypeCoercion        ErrorType = "type_error"
	ConstraintViolation ErrorType = "value_error"
	InvalidEnumValue    ErrorType = "enum"
)

// Loc is the location of a value inside a request: a source followed by field
// names and list indexes, e.g. ["body", "items", 0, "price"].
type Loc []any

// Append returns a new location with parts added; the receiver is not modified.
func (l Loc) Append(parts ...any) Loc {
	out := make(Loc, 0, len(l)+len(parts))
	out = append(out, l...)
	return append(out, parts...)
}

func (l Loc) String() string {
	parts := make([]string, len(l))
	for i, p := range l {
		switch v := p.(type) {
		case string:
			parts[i] = v
		case int:
			parts[i] = strconv.Itoa(v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, ".")
}

// FieldError describes why one value failed validation.
type FieldError struct {
	Type    ErrorType
	Loc     Loc
	Message string

	// Expected is the attempted type of a TypeCoercion error.
	Expected string
	// Constraint, Limit and Actual describe a ConstraintViolation.
	Constraint string
	Limit      any
	Actual     any
	// Allowed lists the literals of an InvalidEnumValue error.
	Allowed []string

	TranslationKey    string
	TranslationValues map[string]any
}

func (e FieldError) Error() string {
	if len(e.Loc) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

func (e FieldError) Unwrap() error {
	switch e.Type {
	case MissingValue:
		return ErrMissingValue
	case TypeCoercion:
		return ErrTypeCoercion
	case ConstraintViolation:
		return ErrConstraintViolation
	case InvalidEnumValue:
		return ErrInvalidEnumValue
	default:
		return nil
	}
}

// Code is the dotted machine-readable error type, e.g. "type_error.float" or
// "value_error.minimum".
func (e FieldError) Code() string {
	switch e.Type {
	case MissingValue:
		return "value_error.missing"
	case TypeCoercion:
		return "type_error." + e.Expected
	case ConstraintViolation:
		return "value_error." + e.Constraint
	case InvalidEnumValue:
		return "type_error.enum"
	default:
		return string(e.Type)
	}
}

// Context returns the structured details of the error, or nil when there are none.
func (e FieldError) Context() map[string]any {
	switch e.Type {
	case ConstraintViolation:
		return map[string]any{"limit_value": e.Limit, "actual": e.Actual}
	case InvalidEnumValue:
		return map[string]any{"enum_values": e.Allowed}
	default:
		return nil
	}
}

// At returns a copy of the error located at loc.
func (e FieldError) At(loc Loc) FieldError {
	e.Loc = loc
	return e
}

// FieldErrors is an ordered list of field errors. It implements error.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(fe))
	for _, err := range fe {
		parts = append(parts, err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes each error so errors.Is matches any of the sentinels.
func (fe FieldErrors) Unwrap() []error {
	out := make([]error, len(fe))
	for i, e := range fe {
		out[i] = e
	}
	return out
}

func (fe *FieldErrors) Add(err FieldError) {
	*fe = append(*fe, err)
}

// Has reports whether an error is located at loc, given in dotted form.
func (fe FieldErrors) Has(loc string) bool {
	for _, err := range fe {
		if err.Loc.String() == loc {
			return true
		}
	}
	return false
}

// Get returns the messages of errors located at loc, given in dotted form.
func (fe FieldErrors) Get(loc string) []string {
	var messages []string
	for _, err := range fe {
		if err.Loc.String() == loc {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Locations returns the distinct dotted locations in order.
func (fe FieldErrors) Locations() []string {
	var locs []string
	seen := make(map[string]bool)
	for _, err := range fe {
		l := err.Loc.String()
		if !seen[l] {
			locs = append(locs, l)
			seen[l] = true
		}
	}
	return locs
}

func (fe FieldErrors) IsEmpty() bool {
	return len(fe) == 0
}

// ExtractFieldErrors extracts FieldErrors from an error chain.
func ExtractFieldErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}

	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}

	return nil
}

func missing(field string) FieldError {
	return FieldError{
		Type:           MissingValue,
		Message:        "field required",
		TranslationKey: "validation.required",
		TranslationValues: map[string]any{
			"field": field,
		},
	}
}

func typeError(field, expected, message string) FieldError {
	return FieldError{
		Type:           TypeCoercion,
		Message:        message,
		Expected:       expected,
		TranslationKey: "validation.type." + expected,
		TranslationValues: map[string]any{
			"field":    field,
			"expected": expected,
		},
	}
}
