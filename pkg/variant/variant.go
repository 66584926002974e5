package variant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// ErrNoMatchingVariant is returned when no variant of a union accepts a value.
// A handler returning such a value is a server-side defect.
var ErrNoMatchingVariant = errors.New("no matching response variant")

// Set is an ordered list of candidate models. Order is the tie-break.
type Set []*schema.ModelSpec

// Of builds a set from models in declaration order.
func Of(models ...*schema.ModelSpec) Set {
	return Set(models)
}

func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name()
	}
	return names
}

// Attempt records why one variant rejected the value.
type Attempt struct {
	Model  string
	Errors validator.FieldErrors
}

// NoMatchError lists every rejected variant in the order they were tried.
type NoMatchError struct {
	Attempts []Attempt
	Reason   string
}

func (e *NoMatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrNoMatchingVariant, e.Reason)
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s (%d errors)", a.Model, len(a.Errors))
	}
	return fmt.Sprintf("%s: tried %s", ErrNoMatchingVariant, strings.Join(parts, ", "))
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatchingVariant }

// Resolve tries each variant in order and returns the first that accepts raw:
// every required field is present and every present declared field validates.
// Keys not declared by a variant do not prevent a match.
func Resolve(raw any, set Set, v *validator.Validator) (*schema.ModelSpec, *schema.Instance, error) {
	obj, ok := toObject(raw)
	if !ok {
		return nil, nil, &NoMatchError{Reason: fmt.Sprintf("value of type %T is not an object", raw)}
	}
	if len(set) == 0 {
		return nil, nil, &NoMatchError{Reason: "no variants declared"}
	}

	attempts := make([]Attempt, 0, len(set))
	for _, m := range set {
		inst, errs := v.Model(obj, m, nil)
		if len(errs) == 0 {
			return m, inst, nil
		}
		attempts = append(attempts, Attempt{Model: m.Name(), Errors: errs})
	}

	return nil, nil, &NoMatchError{Attempts: attempts}
}

func toObject(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case *schema.Ordered:
		return v.Map(), true
	case *schema.Instance:
		return v.Ordered().Map(), true
	default:
		return nil, false
	}
}
