package binder

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/apikit/pkg/validator"
)

// ValidationFailure is the single error reported for a request whose
// parameters failed to bind. It is never empty and never modified after
// Aggregate returns it.
type ValidationFailure struct {
	errs validator.FieldErrors
	body any
}

// NewValidationFailure builds a failure from errs. It returns nil when errs is empty.
func NewValidationFailure(errs validator.FieldErrors, body any) *ValidationFailure {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationFailure{errs: slices.Clone(errs), body: body}
}

func (f *ValidationFailure) Error() string {
	if len(f.errs) == 1 {
		return fmt.Sprintf("%s: %s", ErrValidationFailed, f.errs[0])
	}
	return fmt.Sprintf("%s: %d errors, first: %s", ErrValidationFailed, len(f.errs), f.errs[0])
}

// Errors returns a copy of the errors in parameter declaration order.
func (f *ValidationFailure) Errors() validator.FieldErrors {
	return slices.Clone(f.errs)
}

// Body is the decoded request body, kept for diagnostics.
func (f *ValidationFailure) Body() any {
	return f.body
}

func (f *ValidationFailure) Len() int {
	return len(f.errs)
}

func (f *ValidationFailure) Is(target error) bool {
	return target == ErrValidationFailed
}

// Unwrap exposes the individual field errors, so errors.Is matches the
// validator sentinels.
func (f *ValidationFailure) Unwrap() []error {
	return f.errs.Unwrap()
}

// Aggregate turns per-parameter outcomes into either the resolved values or
// one *ValidationFailure holding every error in declaration order.
func Aggregate(bound []BoundValue, rawBody any) (Values, error) {
	var errs validator.FieldErrors
	values := make(Values, len(bound))

	for _, b := range bound {
		if !b.OK() {
			errs = append(errs, b.Errors...)
			continue
		}
		values[b.Param.Name()] = b.Value
	}

	if len(errs) > 0 {
		return nil, NewValidationFailure(errs, rawBody)
	}
	return values, nil
}
