package qskema

import (
	"encoding/json"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/qskema/raw"
)

// Schema specification keys.
const (
	SpecType     = "type"
	SpecName     = "name"
	SpecRequired = "required"
	SpecDefault  = "default"
	SpecTable    = "table"
	SpecItem     = "item"
	SpecItems    = "items"
)

// CompileOption configures Compile and CompileNode.
type CompileOption func(*compiler)

// WithLogger routes compile-time debug events to l.
func WithLogger(l *slog.Logger) CompileOption {
	return func(c *compiler) {
		if l != nil {
			c.log = l
		}
	}
}

type compiler struct {
	log *slog.Logger
}

func newCompiler(opts []CompileOption) *compiler {
	c := &compiler{log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile builds a root group from the specification of its items: an
// ordered mapping (*raw.Object, map[string]any or a sequence of [key, spec]
// pairs) from raw input key to child specification.
//
//	root, err := qskema.Compile(map[string]any{
//		"0": map[string]any{"type": "string", "name": "foo", "required": true},
//		"1": map[string]any{"type": "boolean", "name": "bar"},
//	})
func Compile(items any, opts ...CompileOption) (*GroupPattern, error) {
	c := newCompiler(opts)
	g, err := c.group(items, nil, rootPath)
	if err != nil {
		return nil, err
	}
	c.log.Debug("compiled schema", "fields", len(g.fields))
	return g, nil
}

// MustCompile is like Compile but panics on error. It is meant for schemas
// fixed at program start.
func MustCompile(items any, opts ...CompileOption) *GroupPattern {
	g, err := Compile(items, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// CompileNode builds a single pattern from a node specification carrying a
// "type" key.
func CompileNode(spec any, opts ...CompileOption) (Pattern, error) {
	c := newCompiler(opts)
	obj, ok := specObject(spec)
	if !ok {
		return nil, patternError(CodeInvalidSpec, rootPath, spec, nil)
	}
	return c.node(obj.Clone(), rootPath)
}

func (c *compiler) node(obj *raw.Object, at pathRef) (Pattern, error) {
	typ := obj.Pop(SpecType)
	name, _ := typ.(string)
	kind, ok := ParseKind(name)
	if !ok {
		return nil, patternError(CodeUnknownType, at.Field(SpecType), typ, nil)
	}
	var opts []Option
	if v, ok := obj.Get(SpecRequired); ok {
		obj.Delete(SpecRequired)
		opts = append(opts, Required(truthy(v)))
	}
	if v, ok := obj.Get(SpecDefault); ok {
		obj.Delete(SpecDefault)
		opts = append(opts, Default(v))
	}

	var (
		p   Pattern
		err error
	)
	switch kind {
	case KindString:
		p = NewString(opts...)
	case KindNumeric:
		p = NewNumeric(opts...)
	case KindBoolean:
		p = NewBoolean(opts...)
	case KindMapping:
		var t Table
		t, err = specTable(obj.Pop(SpecTable), at.Field(SpecTable))
		if err == nil {
			p, err = newMapping(t, opts, at)
		}
	case KindList:
		item, present := obj.Get(SpecItem)
		obj.Delete(SpecItem)
		if !present || item == nil {
			return nil, patternError(CodeMissingItem, at, nil, msg{"type": kind.String()})
		}
		iobj, ok := specObject(item)
		if !ok {
			return nil, patternError(CodeInvalidSpec, at.Field(SpecItem), item, nil)
		}
		var ip Pattern
		if ip, err = c.node(iobj.Clone(), at.Field(SpecItem)); err == nil {
			p = &ListPattern{node: newNode(KindList, opts), item: ip}
		}
	case KindGroup:
		items, present := obj.Get(SpecItems)
		obj.Delete(SpecItems)
		if !present || items == nil {
			return nil, patternError(CodeMissingItem, at, nil, msg{"type": kind.String()})
		}
		p, err = c.group(items, opts, at.Field(SpecItems))
	}
	if err != nil {
		return nil, err
	}
	if obj.Len() > 0 {
		keys := obj.Keys()
		return nil, patternError(CodeUnknownOption, at, keys, msg{"type": kind.String(), "option": strings.Join(keys, ", ")})
	}
	c.log.Debug("compiled pattern", "path", at.Pointer(), "kind", kind.String())
	return p, nil
}

func (c *compiler) group(items any, opts []Option, at pathRef) (*GroupPattern, error) {
	entries, ok := specObject(items)
	if !ok {
		return nil, patternError(CodeInvalidSpec, at, items, nil)
	}
	fields := make([]Field, 0, entries.Len())
	var err error
	entries.Range(func(key string, child any) bool {
		fat := at.Field(key)
		cobj, ok := specObject(child)
		if !ok {
			err = patternError(CodeInvalidSpec, fat, child, nil)
			return false
		}
		cobj = cobj.Clone()
		rawName := cobj.Pop(SpecName)
		name, ok := specName(rawName)
		if !ok {
			err = patternError(CodeInvalidName, fat.Field(SpecName), rawName, nil)
			return false
		}
		var p Pattern
		if p, err = c.node(cobj, fat); err != nil {
			return false
		}
		fields = append(fields, Field{Key: key, Name: name, Pattern: p})
		return true
	})
	if err != nil {
		return nil, err
	}
	return newGroup(fields, opts, at)
}

// specObject accepts the mapping shapes allowed in specifications.
func specObject(v any) (*raw.Object, bool) {
	switch t := v.(type) {
	case *raw.Object:
		return t, true
	case map[string]any:
		return raw.FromMap(t), true
	case []any:
		o := raw.NewObject()
		for _, e := range t {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil, false
			}
			k, ok := tableKey(pair[0])
			if !ok || o.Has(k) {
				return nil, false
			}
			o.Set(k, pair[1])
		}
		return o, true
	default:
		return nil, false
	}
}

func specTable(v any, at pathRef) (Table, error) {
	switch t := v.(type) {
	case *raw.Object:
		out := make(Table, 0, t.Len())
		t.Range(func(k string, v any) bool {
			out = append(out, Entry{Key: k, Value: v})
			return true
		})
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Table, 0, len(t))
		for _, k := range keys {
			out = append(out, Entry{Key: k, Value: t[k]})
		}
		return out, nil
	case []any:
		// pairs keep duplicates so that newMapping reports them
		out := make(Table, 0, len(t))
		for _, e := range t {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil, patternError(CodeInvalidTable, at, v, nil)
			}
			k, ok := tableKey(pair[0])
			if !ok {
				return nil, patternError(CodeInvalidTable, at, v, nil)
			}
			out = append(out, Entry{Key: k, Value: pair[1]})
		}
		return out, nil
	case Table:
		return t, nil
	default:
		return nil, patternError(CodeInvalidTable, at, v, nil)
	}
}

// specName accepts strings and integral numbers as child names.
func specName(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return t.String(), true
		}
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'f', -1, 64), true
		}
	}
	return "", false
}

// truthy follows the usual loose truthiness rules for the "required" flag:
// empty strings, zero numbers and empty containers are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case *raw.Object:
		return t.Len() > 0
	case map[string]any:
		return len(t) > 0
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	}
	if i, ok := toInt(v); ok {
		return i != 0
	}
	return true
}
