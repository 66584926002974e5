package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownModel is returned when a model name cannot be resolved. At startup
	// it is a configuration defect and must stop the process.
	ErrUnknownModel = errors.New("schema: unknown model")

	ErrDuplicateModel     = errors.New("schema: model already registered")
	ErrDuplicateField     = errors.New("schema: duplicate field")
	ErrEmptyModelName     = errors.New("schema: model name is empty")
	ErrEmptyFieldName     = errors.New("schema: field name is empty")
	ErrRegistrySealed     = errors.New("schema: registry is sealed")
	ErrInvalidDeclaration = errors.New("schema: invalid declaration")
)

// UnknownModelError names the missing model and, when known, who referenced it.
type UnknownModelError struct {
	Name       string
	Referrer   string
	ReferField string
}

func (e *UnknownModelError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("%s: %q", ErrUnknownModel, e.Name)
	}
	if e.ReferField == "" {
		return fmt.Sprintf("%s: %q (base of %q)", ErrUnknownModel, e.Name, e.Referrer)
	}
	return fmt.Sprintf("%s: %q (referenced by %s.%s)", ErrUnknownModel, e.Name, e.Referrer, e.ReferField)
}

func (e *UnknownModelError) Unwrap() error { return ErrUnknownModel }

// DuplicateFieldError reports a field declared twice in one model definition.
type DuplicateFieldError struct {
	Model string
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s %q in model %q", ErrDuplicateField, e.Field, e.Model)
}

func (e *DuplicateFieldError) Unwrap() error { return ErrDuplicateField }
