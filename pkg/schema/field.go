package schema

import (
	"fmt"
	"slices"
)

// ConstraintKind names a bound or length constraint.
type ConstraintKind string

const (
	MinLengthConstraint ConstraintKind = "min_length"
	MaxLengthConstraint ConstraintKind = "max_length"
	GeConstraint        ConstraintKind = "ge"
	GtConstraint        ConstraintKind = "gt"
	LeConstraint        ConstraintKind = "le"
	LtConstraint        ConstraintKind = "lt"
)

// Constraint is a single declared bound. Constraints are checked in the order
// they were declared on the field.
type Constraint struct {
	Kind  ConstraintKind
	Limit float64
}

// Name is the violation name reported for the constraint.
func (c Constraint) Name() string {
	switch c.Kind {
	case GeConstraint:
		return "minimum"
	case GtConstraint:
		return "exclusive_minimum"
	case LeConstraint:
		return "maximum"
	case LtConstraint:
		return "exclusive_maximum"
	default:
		return string(c.Kind)
	}
}

// IsLength reports whether the constraint bounds a length rather than a value.
func (c Constraint) IsLength() bool {
	return c.Kind == MinLengthConstraint || c.Kind == MaxLengthConstraint
}

// FieldSpec describes one field of a model or one bound parameter.
// Title, Description and Example are metadata only; validation never reads them.
type FieldSpec struct {
	Name        string
	Type        Type
	Default     any
	HasDefault  bool
	Constraints []Constraint
	Alias       string
	Title       string
	Description string
	Example     any
}

// FieldOption configures a FieldSpec.
type FieldOption func(*FieldSpec)

// NewField builds a field spec. A field without a Default option is required.
func NewField(name string, t Type, opts ...FieldOption) FieldSpec {
	f := FieldSpec{Name: name, Type: t.clone()}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Required reports whether the field must be supplied.
func (f FieldSpec) Required() bool {
	return !f.HasDefault
}

// Key is the external name of the field: its alias when declared, otherwise its name.
func (f FieldSpec) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func (f FieldSpec) String() string {
	return fmt.Sprintf("%s %s", f.Name, f.Type)
}

func (f FieldSpec) clone() FieldSpec {
	c := f
	c.Type = f.Type.clone()
	c.Constraints = slices.Clone(f.Constraints)
	return c
}

// Default sets the value used when the field is absent. Default(nil) makes an
// optional field default to null.
func Default(v any) FieldOption {
	return func(f *FieldSpec) {
		f.Default = v
		f.HasDefault = true
	}
}

func MinLength(n int) FieldOption { return constraint(MinLengthConstraint, float64(n)) }
func MaxLength(n int) FieldOption { return constraint(MaxLengthConstraint, float64(n)) }
func Ge(v float64) FieldOption    { return constraint(GeConstraint, v) }
func Gt(v float64) FieldOption    { return constraint(GtConstraint, v) }
func Le(v float64) FieldOption    { return constraint(LeConstraint, v) }
func Lt(v float64) FieldOption    { return constraint(LtConstraint, v) }

func constraint(kind ConstraintKind, limit float64) FieldOption {
	return func(f *FieldSpec) {
		f.Constraints = append(f.Constraints, Constraint{Kind: kind, Limit: limit})
	}
}

// Alias sets the external lookup and serialization name.
func Alias(name string) FieldOption {
	return func(f *FieldSpec) { f.Alias = name }
}

func Title(s string) FieldOption {
	return func(f *FieldSpec) { f.Title = s }
}

func Description(s string) FieldOption {
	return func(f *FieldSpec) { f.Description = s }
}

func Example(v any) FieldOption {
	return func(f *FieldSpec) { f.Example = v }
}
