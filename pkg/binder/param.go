package binder

import (
	"strings"

	"github.com/dmitrymomot/apikit/pkg/schema"
)

// Source is the request location a parameter is read from.
type Source string

const (
	SourcePath   Source = "path"
	SourceQuery  Source = "query"
	SourceHeader Source = "header"
	SourceCookie Source = "cookie"
	SourceBody   Source = "body"
	SourceForm   Source = "form"
	SourceFile   Source = "file"
)

// FileMode selects how an uploaded file is delivered to the handler.
type FileMode int

const (
	// FileBytes reads the whole upload into a []byte.
	FileBytes FileMode = iota
	// FileHandle delivers an *UploadFile without reading the content.
	FileHandle
)

// Param declares one handler parameter: where it comes from and how it is validated.
type Param struct {
	Source   Source
	Field    schema.FieldSpec
	FileMode FileMode
	// Embedded makes a body parameter read body[name] even when it is the
	// only body parameter.
	Embedded bool
}

// Name is the key the bound value is stored under in Values.
func (p Param) Name() string {
	return p.Field.Name
}

// Key is the name looked up in the request. Header names default to the
// parameter name with underscores replaced by hyphens.
func (p Param) Key() string {
	if p.Field.Alias != "" {
		return p.Field.Alias
	}
	if p.Source == SourceHeader {
		return strings.ReplaceAll(p.Field.Name, "_", "-")
	}
	return p.Field.Name
}

func newParam(src Source, name string, t schema.Type, opts []schema.FieldOption) Param {
	return Param{Source: src, Field: schema.NewField(name, t, opts...)}
}

func Path(name string, t schema.Type, opts ...schema.FieldOption) Param {
	return newParam(SourcePath, name, t, opts)
}

// Query declares a query string parameter. List types collect every value.
func Query(name string, t schema.Type, opts ...schema.FieldOption) Param {
	return newParam(SourceQuery, name, t, opts)
}

// Header declares a request header parameter. List types collect every value.
func Header(name string, t schema.Type, opts ...schema.FieldOption) Param {
	return newParam(SourceHeader, name, t, opts)
}

func Cookie(name string, t schema.Type, opts ...schema.FieldOption) Param {
	return newParam(SourceCookie, name, t, opts)
}

// Body declares a JSON body parameter. A single body parameter receives the
// whole body; with several, each reads the member named after it.
func Body(name string, t schema.Type, opts ...schema.FieldOption) Param {
	return newParam(SourceBody, name, t, opts)
}

// Form declares an urlencoded or multipart form field.
func Form(name string, t schema.Type, opts ...schema.FieldOption) Param {
	return newParam(SourceForm, name, t, opts)
}

// File declares a multipart file upload. Pass schema.Default(nil) to make
// the upload optional.
func File(name string, mode FileMode, opts ...schema.FieldOption) Param {
	t := schema.Bytes()
	if mode == FileHandle {
		t = schema.Any()
	}
	p := newParam(SourceFile, name, t, opts)
	p.FileMode = mode
	return p
}

// Embed makes a single body parameter read body[name] instead of the whole body.
func Embed(p Param) Param {
	p.Embedded = true
	return p
}
