package httperr

import "errors"

var (
	ErrRouterSealed     = errors.New("error router is sealed")
	ErrDuplicateMapping = errors.New("error type already mapped")
	ErrInvalidMapping   = errors.New("invalid error mapping")
)
