package schema

import (
	"slices"
	"strings"
)

// Kind identifies the declared type of a field.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindEmail  Kind = "email"
	KindBytes  Kind = "bytes"
	KindAny    Kind = "any"
	KindList   Kind = "list"
	KindModel  Kind = "model"
)

// Type is a declared field type. Types are values and never mutated after
// construction; helpers below return copies.
type Type struct {
	Kind     Kind
	Elem     *Type    // list element type, KindList only
	Model    string   // referenced model name, KindModel only
	Enum     []string // closed, ordered literal set for string enums
	Nullable bool     // null is an accepted value
}

func String() Type { return Type{Kind: KindString} }
func Int() Type    { return Type{Kind: KindInt} }
func Float() Type  { return Type{Kind: KindFloat} }
func Bool() Type   { return Type{Kind: KindBool} }
func Email() Type  { return Type{Kind: KindEmail} }
func Bytes() Type  { return Type{Kind: KindBytes} }
func Any() Type    { return Type{Kind: KindAny} }

// ListOf declares a list whose elements have type elem.
func ListOf(elem Type) Type {
	e := elem.clone()
	return Type{Kind: KindList, Elem: &e}
}

// Ref declares a nested model referenced by name. The reference is resolved
// through the registry, so it may point at a model registered later.
func Ref(model string) Type {
	return Type{Kind: KindModel, Model: model}
}

// Enum declares a string restricted to the given literals, in order.
func Enum(values ...string) Type {
	return Type{Kind: KindString, Enum: slices.Clone(values)}
}

// Optional returns a copy of t that also accepts null.
func Optional(t Type) Type {
	c := t.clone()
	c.Nullable = true
	return c
}

// IsEnum reports whether the type is a closed literal set.
func (t Type) IsEnum() bool {
	return len(t.Enum) > 0
}

// String renders the type using the declaration grammar, e.g. "list[string]?".
func (t Type) String() string {
	var b strings.Builder
	switch t.Kind {
	case KindList:
		b.WriteString("list[")
		if t.Elem != nil {
			b.WriteString(t.Elem.String())
		} else {
			b.WriteString(string(KindAny))
		}
		b.WriteString("]")
	case KindModel:
		b.WriteString(t.Model)
	default:
		if t.IsEnum() {
			b.WriteString("enum(" + strings.Join(t.Enum, "|") + ")")
		} else {
			b.WriteString(string(t.Kind))
		}
	}
	if t.Nullable {
		b.WriteString("?")
	}
	return b.String()
}

func (t Type) clone() Type {
	c := t
	c.Enum = slices.Clone(t.Enum)
	if t.Elem != nil {
		e := t.Elem.clone()
		c.Elem = &e
	}
	return c
}

// models returns every model name referenced by the type, including list elements.
func (t Type) models() []string {
	switch t.Kind {
	case KindModel:
		return []string{t.Model}
	case KindList:
		if t.Elem != nil {
			return t.Elem.models()
		}
	}
	return nil
}
