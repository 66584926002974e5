package schema

import (
	"errors"
	"fmt"
)

// Resolver looks registered models up by name.
type Resolver interface {
	Resolve(name string) (*ModelSpec, error)
}

// Registry holds compiled models. It is populated at startup and sealed;
// after Seal every method is a read and may be called concurrently without locks.
// Register must not run concurrently with reads.
type Registry struct {
	models map[string]*ModelSpec
	order  []string
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*ModelSpec)}
}

// Register compiles def, flattening it onto its base model.
// The base must already be registered.
func (r *Registry) Register(def ModelDef) (*ModelSpec, error) {
	if r.sealed {
		return nil, ErrRegistrySealed
	}
	if def.Name == "" {
		return nil, ErrEmptyModelName
	}
	if _, exists := r.models[def.Name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateModel, def.Name)
	}

	var base *ModelSpec
	if def.Base != "" {
		b, ok := r.models[def.Base]
		if !ok {
			return nil, &UnknownModelError{Name: def.Base, Referrer: def.Name}
		}
		base = b
	}

	m, err := flatten(base, def)
	if err != nil {
		return nil, err
	}

	r.models[def.Name] = m
	r.order = append(r.order, def.Name)
	return m, nil
}

// MustRegister is like Register but panics on error. Use it for static schemas
// defined in code, where a failure is a programming error.
func (r *Registry) MustRegister(def ModelDef) *ModelSpec {
	m, err := r.Register(def)
	if err != nil {
		panic(err)
	}
	return m
}

// Resolve returns the model registered under name.
func (r *Registry) Resolve(name string) (*ModelSpec, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, &UnknownModelError{Name: name}
	}
	return m, nil
}

// MustResolve is like Resolve but panics on error.
func (r *Registry) MustResolve(name string) *ModelSpec {
	m, err := r.Resolve(name)
	if err != nil {
		panic(err)
	}
	return m
}

// Models returns registered models in registration order.
func (r *Registry) Models() []*ModelSpec {
	out := make([]*ModelSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.models[name])
	}
	return out
}

// Check verifies that every nested model reference resolves.
// All missing references are reported together.
func (r *Registry) Check() error {
	var errs []error
	for _, name := range r.order {
		r.models[name].each(func(_ int, f *FieldSpec) {
			for _, ref := range f.Type.models() {
				if _, ok := r.models[ref]; !ok {
					errs = append(errs, &UnknownModelError{Name: ref, Referrer: name, ReferField: f.Name})
				}
			}
		})
	}
	return errors.Join(errs...)
}

// Seal checks references and freezes the registry.
func (r *Registry) Seal() error {
	if err := r.Check(); err != nil {
		return err
	}
	r.sealed = true
	return nil
}
