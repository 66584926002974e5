package shaper

import (
	"reflect"

	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/validator"
	"github.com/dmitrymomot/apikit/pkg/variant"
)

type declKind int

const (
	declNone declKind = iota
	declSingle
	declList
	declUnion
)

// Declaration is the response model of an endpoint: one model, a list of a
// model, or a union of variants. The zero value passes values through.
type Declaration struct {
	kind      declKind
	model     *schema.ModelSpec
	variants  variant.Set
	directive Directive
}

// Single declares a response of model m.
func Single(m *schema.ModelSpec, d Directive) Declaration {
	return Declaration{kind: declSingle, model: m, directive: d}
}

// List declares a response that is a list of m.
func List(m *schema.ModelSpec, d Directive) Declaration {
	return Declaration{kind: declList, model: m, directive: d}
}

// Union declares a response matching the first accepting variant.
func Union(d Directive, variants ...*schema.ModelSpec) Declaration {
	return Declaration{kind: declUnion, variants: variant.Of(variants...), directive: d}
}

func (dc Declaration) IsZero() bool { return dc.kind == declNone }

func (dc Declaration) Model() *schema.ModelSpec { return dc.model }

func (dc Declaration) Variants() variant.Set { return dc.variants }

func (dc Declaration) Directive() Directive { return dc.directive }

// Shape applies the declaration to a handler's return value. Errors are
// server-side: *ResponseValidationError or *variant.NoMatchError.
func (dc Declaration) Shape(val any, v *validator.Validator) (any, error) {
	switch dc.kind {
	case declSingle:
		return Shape(val, v, dc.model, dc.directive)
	case declList:
		return dc.shapeList(val, v)
	case declUnion:
		return dc.shapeUnion(val, v)
	default:
		return val, nil
	}
}

func (dc Declaration) shapeList(val any, v *validator.Validator) (any, error) {
	if val == nil {
		return []any{}, nil
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &ResponseValidationError{
			Model: dc.model.Name(),
			Errors: validator.FieldErrors{{
				Type:     validator.TypeCoercion,
				Loc:      responseLoc,
				Message:  ErrNotAList.Error(),
				Expected: "list",
			}},
		}
	}

	out := make([]any, rv.Len())
	for i := range rv.Len() {
		o, err := Shape(rv.Index(i).Interface(), v, dc.model, dc.directive)
		if err != nil {
			return nil, atIndex(err, i)
		}
		out[i] = o
	}
	return out, nil
}

func (dc Declaration) shapeUnion(val any, v *validator.Validator) (any, error) {
	raw := val
	switch val.(type) {
	case map[string]any, *schema.Instance, *schema.Ordered:
	default:
		if m, err := toMap(val); err == nil {
			raw = m
		}
	}

	_, inst, err := variant.Resolve(raw, dc.variants, v)
	if err != nil {
		return nil, err
	}

	if src, ok := val.(*schema.Instance); ok && src.Model() == inst.Model() {
		inst = src
	}
	return emit(inst, dc.directive), nil
}

// atIndex moves response errors under the list index they belong to.
func atIndex(err error, i int) error {
	rve, ok := err.(*ResponseValidationError)
	if !ok {
		return err
	}
	errs := make(validator.FieldErrors, len(rve.Errors))
	for j, fe := range rve.Errors {
		loc := validator.Loc{"response", i}
		if len(fe.Loc) > 1 {
			loc = loc.Append(fe.Loc[1:]...)
		}
		errs[j] = fe.At(loc)
	}
	return &ResponseValidationError{Model: rve.Model, Errors: errs}
}
