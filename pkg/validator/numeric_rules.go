package validator

import "fmt"

// MinNum validates that a numeric value is greater than or equal to the minimum.
func MinNum[T Numeric](field string, value T, min T) Rule {
	return bound(field, value, min, value >= min, "minimum", "greater than or equal to", "validation.min")
}

// MaxNum validates that a numeric value is less than or equal to the maximum.
func MaxNum[T Numeric](field string, value T, max T) Rule {
	return bound(field, value, max, value <= max, "maximum", "less than or equal to", "validation.max")
}

// GreaterThan validates that a numeric value is strictly greater than limit.
func GreaterThan[T Numeric](field string, value T, limit T) Rule {
	return bound(field, value, limit, value > limit, "exclusive_minimum", "greater than", "validation.gt")
}

// LessThan validates that a numeric value is strictly less than limit.
func LessThan[T Numeric](field string, value T, limit T) Rule {
	return bound(field, value, limit, value < limit, "exclusive_maximum", "less than", "validation.lt")
}

func bound[T Numeric](field string, value, limit T, ok bool, name, phrase, key string) Rule {
	return Rule{
		Check: func() bool {
			return ok
		},
		Error: FieldError{
			Type:           ConstraintViolation,
			Message:        fmt.Sprintf("ensure this value is %s %v", phrase, limit),
			Constraint:     name,
			Limit:          limit,
			Actual:         value,
			TranslationKey: key,
			TranslationValues: map[string]any{
				"field": field,
				"limit": limit,
			},
		},
	}
}
