package qskema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// ValueKind tells which arm of the Value union is populated.
type ValueKind int

const (
	ScalarValue ValueKind = iota + 1
	ListValue
	GroupValue
)

func (k ValueKind) String() string {
	switch k {
	case ScalarValue:
		return "scalar"
	case ListValue:
		return "list"
	case GroupValue:
		return "group"
	default:
		return "unknown"
	}
}

// Value is the typed result of parsing input against a Pattern. It holds a
// scalar, an ordered sequence of children, or children keyed by name, plus
// the raw input and a reference to the producing pattern.
//
// A nil *Value stands for absent input; every accessor is nil-safe. Values
// are never mutated after Parse returns.
type Value struct {
	kind    ValueKind
	raw     any
	value   any
	pattern Pattern

	items  []*Value
	names  []string
	fields map[string]*Value
}

func (v *Value) Kind() ValueKind {
	if v == nil {
		return 0
	}
	return v.kind
}

// Raw returns the input before cleaning (the default when one was applied).
func (v *Value) Raw() any {
	if v == nil {
		return nil
	}
	return v.raw
}

// Value returns the cleaned scalar; nil for containers.
func (v *Value) Value() any {
	if v == nil {
		return nil
	}
	return v.value
}

// Pattern returns the pattern that produced v. The value tree does not own
// it.
func (v *Value) Pattern() Pattern {
	if v == nil {
		return nil
	}
	return v.pattern
}

// Len returns the number of children of a container.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case ListValue:
		return len(v.items)
	case GroupValue:
		return len(v.names)
	}
	return 0
}

// Index returns the i-th element of a list (nil when out of range).
func (v *Value) Index(i int) *Value {
	if v == nil || v.kind != ListValue || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Items returns the elements of a list.
func (v *Value) Items() []*Value {
	if v == nil || v.kind != ListValue {
		return nil
	}
	return append([]*Value(nil), v.items...)
}

// Get returns the child of a group published under name. The boolean
// reports whether the name is declared; the child itself may be nil when the
// input was absent.
func (v *Value) Get(name string) (*Value, bool) {
	if v == nil || v.kind != GroupValue {
		return nil, false
	}
	c, ok := v.fields[name]
	return c, ok
}

// Names returns the child names of a group in declaration order.
func (v *Value) Names() []string {
	if v == nil || v.kind != GroupValue {
		return nil
	}
	return append([]string(nil), v.names...)
}

// Interface returns a plain Go view: the scalar, []any for lists and
// map[string]any for groups. Absent children become nil.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case ListValue:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	case GroupValue:
		out := make(map[string]any, len(v.names))
		for _, n := range v.names {
			out[n] = v.fields[n].Interface()
		}
		return out
	default:
		return v.value
	}
}

// MarshalJSON renders the cleaned tree, groups in declaration order.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch v.kind {
	case ListValue:
		return json.Marshal(v.items)
	case GroupValue:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, n := range v.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(n)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			cb, err := v.fields[n].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(cb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return json.Marshal(v.value)
	}
}
