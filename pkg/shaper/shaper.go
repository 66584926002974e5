package shaper

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

var responseLoc = validator.Loc{"response"}

// Shape validates val against m and emits it as an ordered mapping filtered by
// d. Keys follow model declaration order and use field aliases.
//
// val may be a map, a *schema.Instance, a *schema.Ordered or any value that
// marshals to a JSON object. An *schema.Ordered is treated as already shaped:
// it is filtered but not validated or defaulted again, so shaping a shaped
// value returns the same result.
func Shape(val any, v *validator.Validator, m *schema.ModelSpec, d Directive) (*schema.Ordered, error) {
	if o, ok := val.(*schema.Ordered); ok {
		return filterOrdered(o, m, d), nil
	}

	inst, err := instance(val, v, m)
	if err != nil {
		return nil, err
	}
	return emit(inst, d), nil
}

func instance(val any, v *validator.Validator, m *schema.ModelSpec) (*schema.Instance, error) {
	switch x := val.(type) {
	case *schema.Instance:
		if x.Model() == m || x.Model().Name() == m.Name() {
			return x, nil
		}
		return convert(x, v, m)
	case map[string]any:
		return validate(x, v, m)
	}

	raw, err := toMap(val)
	if err != nil {
		return nil, &ResponseValidationError{
			Model:  m.Name(),
			Errors: validator.FieldErrors{notObject(err)},
		}
	}
	return validate(raw, v, m)
}

func validate(raw map[string]any, v *validator.Validator, m *schema.ModelSpec) (*schema.Instance, error) {
	inst, errs := v.Model(raw, m, responseLoc)
	if len(errs) > 0 {
		return nil, &ResponseValidationError{Model: m.Name(), Errors: errs}
	}
	return inst, nil
}

// convert re-validates an instance of another model, e.g. UserIn returned for
// a UserOut response. Explicit flags carry over by external key.
func convert(src *schema.Instance, v *validator.Validator, m *schema.ModelSpec) (*schema.Instance, error) {
	raw := src.Ordered().Map()
	explicit := make(map[string]bool, len(raw))
	for _, f := range src.Model().Fields() {
		if src.IsSet(f.Name) {
			explicit[f.Key()] = true
		}
	}

	inst, err := validate(raw, v, m)
	if err != nil {
		return nil, err
	}

	out := schema.NewInstance(m)
	for _, f := range m.Fields() {
		if val, ok := inst.Get(f.Name); ok {
			out.Set(f.Name, val, explicit[f.Key()])
		}
	}
	return out, nil
}

func emit(inst *schema.Instance, d Directive) *schema.Ordered {
	fields := inst.Model().Fields()
	out := schema.NewOrdered(len(fields))
	for _, f := range fields {
		val, ok := inst.Get(f.Name)
		if !ok || !d.keep(f, inst.IsSet(f.Name)) {
			continue
		}
		out.Set(f.Key(), emitValue(val, d.nested()))
	}
	return out
}

func emitValue(val any, d Directive) any {
	switch x := val.(type) {
	case *schema.Instance:
		return emit(x, d)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = emitValue(e, d)
		}
		return out
	default:
		return val
	}
}

func filterOrdered(o *schema.Ordered, m *schema.ModelSpec, d Directive) *schema.Ordered {
	fields := m.Fields()
	out := schema.NewOrdered(len(fields))
	for _, f := range fields {
		val, ok := o.Get(f.Key())
		if !ok || !d.keep(f, true) {
			continue
		}
		out.Set(f.Key(), val)
	}
	return out
}

// toMap converts an arbitrary value to a JSON object. Numbers are kept as
// json.Number so integers survive the round trip.
func toMap(val any) (map[string]any, error) {
	if val == nil {
		return nil, fmt.Errorf("got null")
	}
	data, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("got %T", val)
	}
	return obj, nil
}

func notObject(cause error) validator.FieldError {
	return validator.FieldError{
		Type:     validator.TypeCoercion,
		Loc:      responseLoc,
		Message:  "value is not a valid dict: " + cause.Error(),
		Expected: "dict",
	}
}
