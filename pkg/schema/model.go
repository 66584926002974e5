package schema

// ModelDef is the input to Registry.Register.
type ModelDef struct {
	Name   string
	Base   string
	Fields []FieldSpec
}

// Model builds a definition with no base model.
func Model(name string, fields ...FieldSpec) ModelDef {
	return ModelDef{Name: name, Fields: fields}
}

// Extends returns a copy of the definition deriving from base.
func (d ModelDef) Extends(base string) ModelDef {
	d.Base = base
	return d
}

// ModelSpec is a registered, flattened model. It is read-only and safe for
// concurrent use.
type ModelSpec struct {
	name   string
	base   string
	fields []FieldSpec
	index  map[string]int
}

func (m *ModelSpec) Name() string { return m.name }

// Base returns the name of the model this one was derived from, or "".
func (m *ModelSpec) Base() string { return m.base }

// Fields returns a copy of the flattened fields in declaration order.
func (m *ModelSpec) Fields() []FieldSpec {
	out := make([]FieldSpec, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.clone()
	}
	return out
}

// Field looks a field up by name.
func (m *ModelSpec) Field(name string) (FieldSpec, bool) {
	i, ok := m.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return m.fields[i].clone(), true
}

// FieldNames returns field names in declaration order.
func (m *ModelSpec) FieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of fields.
func (m *ModelSpec) Len() int { return len(m.fields) }

// each iterates fields without copying them; callers must not retain or mutate.
func (m *ModelSpec) each(fn func(i int, f *FieldSpec)) {
	for i := range m.fields {
		fn(i, &m.fields[i])
	}
}

// flatten merges base fields with the derived definition. A redeclared field
// replaces the base field at the base position; new fields are appended.
func flatten(base *ModelSpec, def ModelDef) (*ModelSpec, error) {
	m := &ModelSpec{
		name:  def.Name,
		base:  def.Base,
		index: make(map[string]int),
	}

	if base != nil {
		base.each(func(_ int, f *FieldSpec) {
			m.index[f.Name] = len(m.fields)
			m.fields = append(m.fields, f.clone())
		})
	}

	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" {
			return nil, ErrEmptyFieldName
		}
		if seen[f.Name] {
			return nil, &DuplicateFieldError{Model: def.Name, Field: f.Name}
		}
		seen[f.Name] = true

		if i, ok := m.index[f.Name]; ok {
			m.fields[i] = f.clone()
			continue
		}
		m.index[f.Name] = len(m.fields)
		m.fields = append(m.fields, f.clone())
	}

	return m, nil
}
