package qskema

import (
	"errors"
	"fmt"
	"strconv"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	eng "github.com/reoring/qskema/internal/engine"
	"github.com/reoring/qskema/raw"
	"github.com/reoring/qskema/source/gojson"
)

// maxSpecDepth bounds the nesting of schema files.
const maxSpecDepth = 64

// LoadSpecJSON reads a JSON schema specification, keeping key order.
// Duplicate keys are rejected.
func LoadSpecJSON(data []byte) (any, error) {
	if !j.Valid(data) {
		return nil, specParseError(errors.New("invalid JSON document"))
	}
	src := eng.WrapWithEnforcement(gojson.NewBytes(data), eng.EnforceOptions{
		OnDuplicate: eng.DupError,
		MaxDepth:    maxSpecDepth,
	})
	v, err := eng.DecodeOrdered(src)
	if err != nil {
		var ie eng.IssueError
		if errors.As(err, &ie) && ie.Code == CodeDuplicateKey {
			e := patternError(CodeDuplicateKey, rootPath, ie.Path, nil)
			e.Path = ie.Path
			e.Cause = err
			return nil, e
		}
		return nil, specParseError(err)
	}
	return v, nil
}

// LoadSpecYAML reads a YAML schema specification, keeping key order.
// Duplicate keys are rejected.
func LoadSpecYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, specParseError(err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return yamlValue(&doc, rootPath, 0)
}

// CompileJSON loads and compiles the root items of a JSON specification.
func CompileJSON(data []byte, opts ...CompileOption) (*GroupPattern, error) {
	spec, err := LoadSpecJSON(data)
	if err != nil {
		return nil, err
	}
	return Compile(spec, opts...)
}

// CompileYAML loads and compiles the root items of a YAML specification.
func CompileYAML(data []byte, opts ...CompileOption) (*GroupPattern, error) {
	spec, err := LoadSpecYAML(data)
	if err != nil {
		return nil, err
	}
	return Compile(spec, opts...)
}

func specParseError(cause error) *Error {
	e := patternError(CodeParseError, rootPath, cause.Error(), nil)
	e.Cause = cause
	return e
}

func yamlValue(n *yaml.Node, at pathRef, depth int) (any, error) {
	if depth > maxSpecDepth {
		return nil, specParseError(fmt.Errorf("max depth exceeded at %s", at.Pointer()))
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0], at, depth)
	case yaml.AliasNode:
		return yamlValue(n.Alias, at, depth+1)
	case yaml.MappingNode:
		o := raw.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, specParseError(fmt.Errorf("line %d: mapping keys must be scalars", k.Line))
			}
			if o.Has(k.Value) {
				e := patternError(CodeDuplicateKey, at, k.Value, nil)
				e.Path = at.Field(k.Value).Pointer()
				return nil, e
			}
			cv, err := yamlValue(v, at.Field(k.Value), depth+1)
			if err != nil {
				return nil, err
			}
			o.Set(k.Value, cv)
		}
		return o, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			cv, err := yamlValue(c, at.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, cv)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, specParseError(err)
		}
		return normalizeYAMLScalar(v), nil
	}
}

func normalizeYAMLScalar(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case uint64:
		if t <= 1<<63-1 {
			return int64(t)
		}
		return strconv.FormatUint(t, 10)
	default:
		return v
	}
}
