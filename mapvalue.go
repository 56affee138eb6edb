package qskema

import (
	"github.com/reoring/qskema/raw"
)

// Coerce converts one mapped key or value. Map and Unmap treat nil as the
// identity.
type Coerce func(any) (any, error)

// Map resolves path against schema, which must address a Mapping pattern,
// and performs the forward lookup of key. A key sequence ([]any or
// []string) is mapped element-wise into a []any.
//
// schema is either a compiled *GroupPattern or the specification of its
// items (see Compile).
func Map(schema any, path string, key any, coerce Coerce) (any, error) {
	m, err := resolveMapping(schema, path)
	if err != nil {
		return nil, err
	}
	if keys, ok := sequenceOf(key); ok {
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			v, err := mapOne(m, k, coerce)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return mapOne(m, key, coerce)
}

// Unmap is the reverse of Map. A scalar value yields its key when exactly
// one key matches, otherwise a []any of keys. A value sequence yields the
// keys of every element in order, each key reported once.
func Unmap(schema any, path string, value any, coerce Coerce) (any, error) {
	m, err := resolveMapping(schema, path)
	if err != nil {
		return nil, err
	}
	values, isSeq := sequenceOf(value)
	if !isSeq {
		values = []any{value}
	}
	var keys []string
	seen := make(map[string]struct{})
	for _, v := range values {
		ks, err := m.Reverse(v)
		if err != nil {
			return nil, err
		}
		for _, k := range ks {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	if !isSeq && len(keys) == 1 {
		return applyCoerce(coerce, keys[0])
	}
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		c, err := applyCoerce(coerce, k)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func mapOne(m *MappingPattern, key any, coerce Coerce) (any, error) {
	v, err := m.Clean(key)
	if err != nil {
		return nil, err
	}
	return applyCoerce(coerce, v)
}

func applyCoerce(coerce Coerce, v any) (any, error) {
	if coerce == nil {
		return v, nil
	}
	c, err := coerce(v)
	if err != nil {
		e := valueError(CodeCoerceFailed, rootPath, v, nil)
		e.Cause = err
		return nil, e
	}
	return c, nil
}

func resolveMapping(schema any, path string) (*MappingPattern, error) {
	root, err := resolveSchema(schema)
	if err != nil {
		return nil, err
	}
	p, err := root.Item(path)
	if err != nil {
		return nil, err
	}
	m, ok := p.(*MappingPattern)
	if !ok {
		return nil, patternError(CodeNotMapping, rootPath, path, nil)
	}
	return m, nil
}

func resolveSchema(schema any) (*GroupPattern, error) {
	switch t := schema.(type) {
	case *GroupPattern:
		if t == nil {
			return nil, patternError(CodeInvalidSpec, rootPath, nil, nil)
		}
		return t, nil
	case *raw.Object, map[string]any, []any:
		return Compile(t)
	default:
		return nil, patternError(CodeInvalidSpec, rootPath, schema, nil)
	}
}

func sequenceOf(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
