package shaper

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/apikit/pkg/validator"
)

var (
	// ErrResponseValidation means a handler returned data that does not fit
	// its declared response model.
	ErrResponseValidation = errors.New("response validation failed")
	// ErrNotAList is returned when a list declaration receives a non-slice.
	ErrNotAList = errors.New("response value is not a list")
)

// ResponseValidationError carries the field errors of an invalid response.
type ResponseValidationError struct {
	Model  string
	Errors validator.FieldErrors
}

func (e *ResponseValidationError) Error() string {
	return fmt.Sprintf("%s for %s: %s", ErrResponseValidation, e.Model, e.Errors.Error())
}

func (e *ResponseValidationError) Unwrap() error { return ErrResponseValidation }
