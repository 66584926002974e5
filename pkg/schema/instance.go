package schema

import (
	"encoding/json"
	"fmt"
)

// Instance is a validated value of a model. Besides the field values it tracks
// which fields were explicitly supplied by the source, as opposed to filled in
// from defaults; response shaping with exclude-unset relies on that distinction.
type Instance struct {
	model  *ModelSpec
	values map[string]any
	set    map[string]bool
}

// NewInstance creates an empty instance of m.
func NewInstance(m *ModelSpec) *Instance {
	return &Instance{
		model:  m,
		values: make(map[string]any, m.Len()),
		set:    make(map[string]bool, m.Len()),
	}
}

func (in *Instance) Model() *ModelSpec { return in.model }

// Set stores the value of a field. explicit marks the field as supplied by the
// source rather than defaulted.
func (in *Instance) Set(name string, v any, explicit bool) {
	in.values[name] = v
	if explicit {
		in.set[name] = true
	} else {
		delete(in.set, name)
	}
}

// Get returns the value of a field by name.
func (in *Instance) Get(name string) (any, bool) {
	v, ok := in.values[name]
	return v, ok
}

// IsSet reports whether the field was explicitly supplied.
func (in *Instance) IsSet(name string) bool {
	return in.set[name]
}

// FieldsSet returns explicitly supplied field names in model order.
func (in *Instance) FieldsSet() []string {
	var names []string
	in.model.each(func(_ int, f *FieldSpec) {
		if in.set[f.Name] {
			names = append(names, f.Name)
		}
	})
	return names
}

// Map returns the field values keyed by field name. Nested instances become
// maps keyed by their external names.
func (in *Instance) Map() map[string]any {
	out := make(map[string]any, len(in.values))
	for k, v := range in.values {
		out[k] = plain(v)
	}
	return out
}

// Ordered returns every field in model order, keyed by the external name.
func (in *Instance) Ordered() *Ordered {
	o := NewOrdered(in.model.Len())
	in.model.each(func(_ int, f *FieldSpec) {
		if v, ok := in.values[f.Name]; ok {
			o.Set(f.Key(), v)
		}
	})
	return o
}

func (in *Instance) MarshalJSON() ([]byte, error) {
	return in.Ordered().MarshalJSON()
}

// Decode copies the instance into dst, a pointer to a struct with json tags
// matching the external field names.
func (in *Instance) Decode(dst any) error {
	data, err := in.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", in.model.name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", in.model.name, err)
	}
	return nil
}
