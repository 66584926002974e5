package validator

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/dmitrymomot/apikit/pkg/schema"
)

// Validator checks raw values against field specs. It is stateless apart from
// the read-only resolver and safe for concurrent use.
type Validator struct {
	models schema.Resolver
}

// New creates a validator resolving nested model references through models.
func New(models schema.Resolver) *Validator {
	return &Validator{models: models}
}

// Resolver returns the model resolver the validator was built with.
func (v *Validator) Resolver() schema.Resolver {
	return v.models
}

// Field validates one raw value. present is false when the source did not
// supply the value at all, which is different from an explicit null.
//
// The steps run in a fixed order: default for an absent value, missing for an
// absent required value, null handling, type coercion, enum membership and
// finally the declared constraints, stopping at the first violation.
func (v *Validator) Field(raw any, present bool, f schema.FieldSpec, loc Loc) (any, FieldErrors) {
	if !present {
		if f.HasDefault {
			return cloneDefault(f.Default), nil
		}
		return nil, FieldErrors{missing(f.Key()).At(loc)}
	}

	if raw == nil {
		if f.Type.Nullable || f.Type.Kind == schema.KindAny {
			return nil, nil
		}
		return nil, FieldErrors{typeError(f.Key(), "none", "none is not an allowed value").At(loc)}
	}

	val, errs := v.coerce(raw, f.Type, f.Key(), loc)
	if len(errs) > 0 {
		return nil, errs
	}

	if f.Type.IsEnum() {
		s, _ := val.(string)
		if fe := First(InList(f.Key(), s, f.Type.Enum)); fe != nil {
			return nil, FieldErrors{fe.At(loc)}
		}
	}

	if fe := v.constraints(val, f); fe != nil {
		return nil, FieldErrors{fe.At(loc)}
	}

	return val, nil
}

// Model validates a raw object against m. Fields are looked up by their
// external name; keys not declared by the model are ignored. Every field is
// checked and all errors are returned.
func (v *Validator) Model(raw map[string]any, m *schema.ModelSpec, loc Loc) (*schema.Instance, FieldErrors) {
	inst := schema.NewInstance(m)
	var errs FieldErrors

	for _, f := range m.Fields() {
		rv, present := raw[f.Key()]
		val, ferrs := v.Field(rv, present, f, loc.Append(f.Key()))
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		inst.Set(f.Name, val, present)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return inst, nil
}

// Value validates raw against a bare type, with no default or constraints.
func (v *Validator) Value(raw any, t schema.Type, loc Loc) (any, FieldErrors) {
	if raw == nil {
		if t.Nullable || t.Kind == schema.KindAny {
			return nil, nil
		}
		return nil, FieldErrors{typeError("", "none", "none is not an allowed value").At(loc)}
	}
	return v.coerce(raw, t, "", loc)
}

func (v *Validator) coerce(raw any, t schema.Type, field string, loc Loc) (any, FieldErrors) {
	fail := func(expected, msg string) (any, FieldErrors) {
		return nil, FieldErrors{typeError(field, expected, msg).At(loc)}
	}

	switch t.Kind {
	case schema.KindString:
		s, ok := coerceString(raw)
		if !ok {
			return fail("str", "str type expected")
		}
		return s, nil

	case schema.KindInt:
		n, ok := coerceInt(raw)
		if !ok {
			return fail("integer", "value is not a valid integer")
		}
		return n, nil

	case schema.KindFloat:
		f, ok := coerceFloat(raw)
		if !ok {
			return fail("float", "value is not a valid float")
		}
		return f, nil

	case schema.KindBool:
		b, ok := coerceBool(raw)
		if !ok {
			return fail("bool", "value could not be parsed to a boolean")
		}
		return b, nil

	case schema.KindEmail:
		s, ok := raw.(string)
		if !ok {
			return fail("email", "value is not a valid email address")
		}
		if fe := First(ValidEmail(field, s)); fe != nil {
			return nil, FieldErrors{fe.At(loc)}
		}
		return s, nil

	case schema.KindBytes:
		b, ok := coerceBytes(raw)
		if !ok {
			return fail("bytes", "byte type expected")
		}
		return b, nil

	case schema.KindAny:
		return normalizeAny(raw), nil

	case schema.KindList:
		items, ok := asList(raw)
		if !ok {
			return fail("list", "value is not a valid list")
		}
		elem := schema.Any()
		if t.Elem != nil {
			elem = *t.Elem
		}
		out := make([]any, len(items))
		for i, item := range items {
			val, errs := v.Value(item, elem, loc.Append(i))
			if len(errs) > 0 {
				return nil, errs
			}
			out[i] = val
		}
		return out, nil

	case schema.KindModel:
		obj, ok := asObject(raw)
		if !ok {
			return fail("dict", "value is not a valid dict")
		}
		m, err := v.models.Resolve(t.Model)
		if err != nil {
			return fail(t.Model, fmt.Sprintf("unresolved model %q", t.Model))
		}
		inst, errs := v.Model(obj, m, loc)
		if len(errs) > 0 {
			return nil, errs
		}
		return inst, nil
	}

	return fail(string(t.Kind), "unsupported type")
}

// constraints applies the declared constraints in order and returns the first
// violation. Constraints that do not apply to the value's kind are skipped.
func (v *Validator) constraints(val any, f schema.FieldSpec) *FieldError {
	if len(f.Constraints) == 0 {
		return nil
	}

	rules := make([]Rule, 0, len(f.Constraints))
	for _, c := range f.Constraints {
		if c.IsLength() {
			n, unit, ok := length(val)
			if !ok {
				continue
			}
			limit := int(c.Limit)
			if c.Kind == schema.MinLengthConstraint {
				rules = append(rules, MinLength(f.Key(), n, limit, unit))
			} else {
				rules = append(rules, MaxLength(f.Key(), n, limit, unit))
			}
			continue
		}

		switch n := val.(type) {
		case int:
			if c.Limit == math.Trunc(c.Limit) {
				rules = append(rules, numericRule(c.Kind, f.Key(), n, int(c.Limit)))
			} else {
				rules = append(rules, numericRule(c.Kind, f.Key(), float64(n), c.Limit))
			}
		case float64:
			rules = append(rules, numericRule(c.Kind, f.Key(), n, c.Limit))
		}
	}

	return First(rules...)
}

func numericRule[T Numeric](kind schema.ConstraintKind, field string, value, limit T) Rule {
	switch kind {
	case schema.GeConstraint:
		return MinNum(field, value, limit)
	case schema.GtConstraint:
		return GreaterThan(field, value, limit)
	case schema.LeConstraint:
		return MaxNum(field, value, limit)
	default:
		return LessThan(field, value, limit)
	}
}

func length(val any) (int, string, bool) {
	switch x := val.(type) {
	case string:
		return utf8.RuneCountInString(x), "characters", true
	case []byte:
		return len(x), "bytes", true
	case []any:
		return len(x), "items", true
	default:
		return 0, "", false
	}
}
