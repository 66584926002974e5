// Package validator checks raw request values against schema field specs and
// provides the rule helpers those checks are built from.
//
// Validator.Field runs a fixed pipeline for one value: the default for an
// absent value, MissingValue for an absent required value, null handling,
// type coercion, enum membership and then the declared constraints in
// declaration order, stopping at the first violation. Validator.Model applies
// Field to every field of a model and collects all errors.
//
// Coercion is lenient in the way HTTP inputs need: numeric strings become
// numbers (floats are parsed with shopspring/decimal, so "35.4" is exactly
// 35.4), common boolean spellings are accepted, and a single value is accepted
// where a list is declared.
//
// # Rules
//
// The lower layer is a set of small Rule values, each a Check func paired
// with the FieldError reported on failure. Rules can be used on their own:
//
//	err := validator.Apply(
//	    validator.MinLen("username", username, 3),
//	    validator.ValidEmail("email", email),
//	    validator.MinNum("age", age, 18),
//	)
//
// Apply evaluates every rule and returns all failures; First stops at the
// first failure, which is how declared constraints are evaluated.
//
// # Errors
//
// FieldError carries the location, a message, translation metadata and the
// details of the failure. It unwraps to one of ErrMissingValue,
// ErrTypeCoercion, ErrConstraintViolation or ErrInvalidEnumValue, and
// FieldErrors unwraps to all of its elements, so errors.Is works on either.
package validator
