package validator

import (
	"fmt"
	"unicode/utf8"
)

// MinLength validates that a measured length is at least min. unit names what
// is counted ("characters", "items" or "bytes") and only affects the message.
func MinLength(field string, length, min int, unit string) Rule {
	return Rule{
		Check: func() bool {
			return length >= min
		},
		Error: FieldError{
			Type:           ConstraintViolation,
			Message:        fmt.Sprintf("ensure this value has at least %d %s", min, unit),
			Constraint:     "min_length",
			Limit:          min,
			Actual:         length,
			TranslationKey: "validation.min_length",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxLength validates that a measured length is at most max.
func MaxLength(field string, length, max int, unit string) Rule {
	return Rule{
		Check: func() bool {
			return length <= max
		},
		Error: FieldError{
			Type:           ConstraintViolation,
			Message:        fmt.Sprintf("ensure this value has at most %d %s", max, unit),
			Constraint:     "max_length",
			Limit:          max,
			Actual:         length,
			TranslationKey: "validation.max_length",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// MinLen validates the rune length of a string.
func MinLen(field, value string, min int) Rule {
	return MinLength(field, utf8.RuneCountInString(value), min, "characters")
}

// MaxLen validates the rune length of a string.
func MaxLen(field, value string, max int) Rule {
	return MaxLength(field, utf8.RuneCountInString(value), max, "characters")
}
