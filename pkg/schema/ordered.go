package schema

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Ordered is a string-keyed mapping that remembers insertion order and
// marshals to a JSON object with keys in that order.
type Ordered struct {
	keys   []string
	values map[string]any
}

// NewOrdered creates an empty mapping with room for n keys.
func NewOrdered(n int) *Ordered {
	return &Ordered{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set stores v under key. Replacing an existing key keeps its position.
func (o *Ordered) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Ordered) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key, keeping the relative order of the remaining keys.
func (o *Ordered) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Keys returns a copy of the keys in order.
func (o *Ordered) Keys() []string {
	return slices.Clone(o.keys)
}

func (o *Ordered) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Map returns the entries as a plain map. Nested Ordered values are converted too.
func (o *Ordered) Map() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = plain(o.values[k])
	}
	return out
}

func (o *Ordered) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func plain(v any) any {
	switch x := v.(type) {
	case *Ordered:
		return x.Map()
	case *Instance:
		return x.Ordered().Map()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}
