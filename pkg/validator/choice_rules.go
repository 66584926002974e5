package validator

import (
	"slices"
	"strings"
)

// InList validates that value is one of the declared literals.
func InList(field, value string, allowedValues []string) Rule {
	quoted := make([]string, len(allowedValues))
	for i, v := range allowedValues {
		quoted[i] = "'" + v + "'"
	}
	return Rule{
		Check: func() bool {
			return slices.Contains(allowedValues, value)
		},
		Error: FieldError{
			Type:           InvalidEnumValue,
			Message:        "value is not a valid enumeration member; permitted: " + strings.Join(quoted, ", "),
			Actual:         value,
			Allowed:        slices.Clone(allowedValues),
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":          field,
				"allowed_values": allowedValues,
			},
		},
	}
}
