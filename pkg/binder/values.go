package binder

import (
	"github.com/dmitrymomot/apikit/pkg/schema"
)

// Values holds the validated parameter values of one request, keyed by
// parameter name. Typed getters return the zero value when the parameter is
// absent or holds another type.
type Values map[string]any

func (v Values) Get(name string) (any, bool) {
	val, ok := v[name]
	return val, ok
}

// Has reports whether the parameter holds a non-nil value.
func (v Values) Has(name string) bool {
	return v[name] != nil
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) Bytes(name string) []byte {
	b, _ := v[name].([]byte)
	return b
}

// Strings returns a list parameter as strings. Non-string elements are skipped.
func (v Values) Strings(name string) []string {
	list, _ := v[name].([]any)
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (v Values) Instance(name string) *schema.Instance {
	in, _ := v[name].(*schema.Instance)
	return in
}

func (v Values) Upload(name string) *UploadFile {
	u, _ := v[name].(*UploadFile)
	return u
}

// Decode fills the struct pointed to by dst. Fields are matched by their
// `bind:"name"` tag, or by the lowercased field name when untagged; `bind:"-"`
// skips a field. Model values decode into struct fields through their json tags.
func (v Values) Decode(dst any) error {
	return bindToStruct(dst, "bind", v)
}
