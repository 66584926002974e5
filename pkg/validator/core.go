package validator

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error FieldError
}

// Apply executes every rule and returns all failures as FieldErrors.
func Apply(rules ...Rule) error {
	var errs FieldErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}

	if errs.IsEmpty() {
		return nil
	}

	return errs
}

// First executes rules in order and returns the first failure, or nil.
// Rules after the first failure are not evaluated.
func First(rules ...Rule) *FieldError {
	for _, rule := range rules {
		if !rule.Check() {
			err := rule.Error
			return &err
		}
	}
	return nil
}
