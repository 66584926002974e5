package binder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// BoundValue is the outcome of binding one parameter: a validated value or
// the errors that prevented it.
type BoundValue struct {
	Param   Param
	Value   any
	Present bool
	Errors  validator.FieldErrors
}

// OK reports whether the parameter bound without errors.
func (b BoundValue) OK() bool {
	return len(b.Errors) == 0
}

// Binder resolves declared parameters from a request. It holds no per-request
// state and is safe for concurrent use.
type Binder struct {
	validator   *validator.Validator
	maxFileSize int64
}

// Option configures a Binder.
type Option func(*Binder)

// WithMaxFileSize limits the size of a single uploaded file.
func WithMaxFileSize(n int64) Option {
	return func(b *Binder) { b.maxFileSize = n }
}

// New creates a binder validating values with v.
func New(v *validator.Validator, opts ...Option) *Binder {
	b := &Binder{validator: v, maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Validator returns the validator the binder checks values with.
func (b *Binder) Validator() *validator.Validator {
	return b.validator
}

// Bind resolves every parameter. It never stops at the first invalid
// parameter: each BoundValue carries its own errors. The error result is
// reserved for cancellation of ctx, in which case no values are returned.
func (b *Binder) Bind(ctx context.Context, req Request, params []Param) ([]BoundValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := newBodyState(params)
	out := make([]BoundValue, 0, len(params))

	for _, p := range params {
		bv, err := b.bindOne(ctx, req, p, body)
		if err != nil {
			return nil, err
		}
		out = append(out, bv)
	}

	return out, nil
}

func (b *Binder) bindOne(ctx context.Context, req Request, p Param, body *bodyState) (BoundValue, error) {
	bv := BoundValue{Param: p}
	key := p.Key()
	loc := validator.Loc{string(p.Source), key}

	var raw any
	switch p.Source {
	case SourcePath:
		raw, bv.Present = req.Path(key)

	case SourceQuery:
		vals, ok := req.Query(key)
		raw, bv.Present = multi(vals, p.Field.Type), ok

	case SourceHeader:
		vals, ok := req.Header(key)
		raw, bv.Present = multi(vals, p.Field.Type), ok

	case SourceCookie:
		raw, bv.Present = req.Cookie(key)

	case SourceForm:
		vals, ok := req.Form(key)
		if !ok {
			if fe := formFailure(req); fe != nil {
				bv.Errors = validator.FieldErrors{fe.At(loc)}
				return bv, nil
			}
		}
		raw, bv.Present = multi(vals, p.Field.Type), ok

	case SourceFile:
		fh, ok := req.File(key)
		if !ok {
			if fe := formFailure(req); fe != nil {
				bv.Errors = validator.FieldErrors{fe.At(loc)}
				return bv, nil
			}
			break
		}
		bv.Present = true
		if p.FileMode == FileHandle {
			if fh.Size > b.maxFileSize {
				bv.Errors = validator.FieldErrors{tooLarge(key, fh.Size, b.maxFileSize).At(loc)}
				return bv, nil
			}
			raw = newUploadFile(fh, b.maxFileSize)
			break
		}
		data, err := readFile(ctx, fh, b.maxFileSize)
		switch {
		case errors.Is(err, errLimitExceeded):
			bv.Errors = validator.FieldErrors{tooLarge(key, fh.Size, b.maxFileSize).At(loc)}
			return bv, nil
		case ctx.Err() != nil:
			return BoundValue{}, ctx.Err()
		case err != nil:
			bv.Errors = validator.FieldErrors{unreadable(key, err).At(loc)}
			return bv, nil
		}
		raw = data

	case SourceBody:
		if err := body.load(ctx, req); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return BoundValue{}, ctxErr
			}
		}
		if body.err != nil {
			bv.Errors = validator.FieldErrors{*body.err}
			return bv, nil
		}
		if body.whole && !p.Embedded {
			loc = validator.Loc{string(SourceBody)}
			raw, bv.Present = body.value, body.present
			break
		}
		if !body.present {
			break
		}
		obj, ok := body.value.(map[string]any)
		if !ok {
			bv.Errors = validator.FieldErrors{notAnObject(key).At(validator.Loc{string(SourceBody)})}
			return bv, nil
		}
		raw, bv.Present = obj[key]

	default:
		return BoundValue{}, fmt.Errorf("%w: %q", ErrUnknownSource, p.Source)
	}

	bv.Value, bv.Errors = b.validator.Field(raw, bv.Present, p.Field, loc)
	return bv, nil
}

// multi picks every value for list types and the first one otherwise.
func multi(vals []string, t schema.Type) any {
	if len(vals) == 0 {
		return nil
	}
	if t.Kind == schema.KindList {
		return vals
	}
	return vals[0]
}

// bodyState decodes the JSON body at most once per Bind call.
type bodyState struct {
	whole   bool
	loaded  bool
	present bool
	value   any
	err     *validator.FieldError
}

func newBodyState(params []Param) *bodyState {
	n := 0
	for _, p := range params {
		if p.Source == SourceBody {
			n++
		}
	}
	return &bodyState{whole: n == 1}
}

func (s *bodyState) load(ctx context.Context, req Request) error {
	if s.loaded {
		return nil
	}
	s.loaded = true

	data, err := req.Body(ctx)
	if err != nil {
		fe := unreadable("body", err).At(validator.Loc{string(SourceBody)})
		s.err = &fe
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	v, err := decodeJSON(data)
	if err != nil {
		fe := invalidJSON(err).At(validator.Loc{string(SourceBody)})
		s.err = &fe
		return nil
	}
	s.value, s.present = v, true
	return nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

// DecodedBody returns the request body for diagnostics: the decoded JSON
// value, the raw text when it is not JSON, or nil when there is no body.
func DecodedBody(ctx context.Context, req Request) any {
	data, err := req.Body(ctx)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if v, err := decodeJSON(data); err == nil {
		return v
	}
	return string(data)
}

func formFailure(req Request) *validator.FieldError {
	fr, ok := req.(formErrorer)
	if !ok {
		return nil
	}
	if err := fr.FormError(); err != nil {
		fe := unreadable("form", err)
		return &fe
	}
	return nil
}

func tooLarge(field string, size, limit int64) validator.FieldError {
	return validator.FieldError{
		Type:           validator.ConstraintViolation,
		Message:        fmt.Sprintf("ensure this file has at most %d bytes", limit),
		Constraint:     "max_length",
		Limit:          limit,
		Actual:         size,
		TranslationKey: "validation.file_too_large",
		TranslationValues: map[string]any{
			"field": field,
			"max":   limit,
		},
	}
}

func unreadable(field string, err error) validator.FieldError {
	return validator.FieldError{
		Type:           validator.TypeCoercion,
		Message:        err.Error(),
		Expected:       field,
		TranslationKey: "validation.unreadable",
		TranslationValues: map[string]any{
			"field": field,
		},
	}
}

func invalidJSON(err error) validator.FieldError {
	return validator.FieldError{
		Type:           validator.TypeCoercion,
		Message:        fmt.Sprintf("%s: %v", ErrFailedToParseJSON, err),
		Expected:       "json",
		TranslationKey: "validation.json",
	}
}

func notAnObject(field string) validator.FieldError {
	return validator.FieldError{
		Type:           validator.TypeCoercion,
		Message:        "value is not a valid dict",
		Expected:       "dict",
		TranslationKey: "validation.type.dict",
		TranslationValues: map[string]any{
			"field": field,
		},
	}
}
