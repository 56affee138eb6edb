// Package raw holds the intermediate, loosely-typed nested structure that sits
// between flat key/value input and schema-driven parsing.
//
// A raw tree is made of three shapes:
//
//   - *Object: an insertion-ordered mapping from string keys to children
//   - []any: an ordered sequence of children
//   - leaves: strings when produced by the query parser, any scalar otherwise
//
// A nil value means the input is absent.
package raw

import (
	"bytes"
	"sort"

	json "github.com/goccy/go-json"
)

// Object is a string-keyed mapping that remembers insertion order.
// The zero value is ready to use.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object { return &Object{} }

// FromMap copies a Go map into an Object. Keys are sorted so that the result
// is deterministic.
func FromMap(m map[string]any) *Object {
	o := &Object{}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return o
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v any) {
	if o.vals == nil {
		o.vals = make(map[string]any)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key, keeping the order of the remaining keys.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Pop removes key and returns its value (nil when missing).
func (o *Object) Pop(key string) any {
	v, ok := o.Get(key)
	if !ok {
		return nil
	}
	o.Delete(key)
	return v
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Values returns the values in key order.
func (o *Object) Values() []any {
	if o == nil {
		return nil
	}
	out := make([]any, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.vals[k])
	}
	return out
}

// Range calls fn for every entry in order until fn returns false.
func (o *Object) Range(fn func(key string, v any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.vals[k]) {
			return
		}
	}
}

// Clone returns a shallow copy.
func (o *Object) Clone() *Object {
	c := &Object{}
	o.Range(func(k string, v any) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// ToMap returns a plain Go view of the tree rooted at o: objects become
// map[string]any and sequences []any. Leaves are shared.
func (o *Object) ToMap() map[string]any {
	if o == nil {
		return nil
	}
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = Plain(o.vals[k])
	}
	return m
}

// Plain converts any raw value into its plain Go view (see ToMap).
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON renders the object keeping key order.
func (o *Object) MarshalJSON() ([]byte, error) {
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
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
