package shaper

import (
	"slices"
	"strings"

	"github.com/dmitrymomot/apikit/pkg/schema"
)

// DirectiveKind selects how a response is filtered.
type DirectiveKind int

const (
	KindNone DirectiveKind = iota
	KindExcludeUnset
	KindInclude
	KindExclude
)

// Directive filters the fields of a shaped response. The zero value emits
// every field.
type Directive struct {
	kind  DirectiveKind
	names map[string]struct{}
}

// None emits every declared field.
func None() Directive {
	return Directive{kind: KindNone}
}

// ExcludeUnset emits only fields explicitly present in the source value,
// recursively for nested models. Fields filled in from defaults are dropped.
func ExcludeUnset() Directive {
	return Directive{kind: KindExcludeUnset}
}

// Include emits only the named top-level fields.
func Include(names ...string) Directive {
	return Directive{kind: KindInclude, names: nameSet(names)}
}

// Exclude emits every top-level field except the named ones.
func Exclude(names ...string) Directive {
	return Directive{kind: KindExclude, names: nameSet(names)}
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (d Directive) Kind() DirectiveKind { return d.kind }

// Names returns the include or exclude set, sorted.
func (d Directive) Names() []string {
	out := make([]string, 0, len(d.names))
	for n := range d.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

func (d Directive) String() string {
	switch d.kind {
	case KindExcludeUnset:
		return "exclude_unset"
	case KindInclude:
		return "include{" + strings.Join(d.Names(), ",") + "}"
	case KindExclude:
		return "exclude{" + strings.Join(d.Names(), ",") + "}"
	default:
		return "none"
	}
}

// keep reports whether a top-level field survives the directive. Fields are
// matched by name or by their external key.
func (d Directive) keep(f schema.FieldSpec, explicit bool) bool {
	switch d.kind {
	case KindExcludeUnset:
		return explicit
	case KindInclude:
		return d.has(f)
	case KindExclude:
		return !d.has(f)
	default:
		return true
	}
}

func (d Directive) has(f schema.FieldSpec) bool {
	if _, ok := d.names[f.Name]; ok {
		return true
	}
	_, ok := d.names[f.Key()]
	return ok
}

// nested returns the directive applied below the top level. Only
// exclude-unset propagates.
func (d Directive) nested() Directive {
	if d.kind == KindExcludeUnset {
		return d
	}
	return None()
}
