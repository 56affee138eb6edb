package qskema

import (
	"strings"

	"github.com/reoring/qskema/raw"
)

// Field declares one child of a group: the raw input key it consumes and
// the name its parsed value is published under.
type Field struct {
	Key     string
	Name    string
	Pattern Pattern
}

// GroupPattern is a closed record of named, individually typed children.
// The root of every schema is a GroupPattern.
type GroupPattern struct {
	node
	fields []Field
	byName map[string]int
}

// NewGroup returns a group over fields, declared in order. Each child is
// copied with its Name attached; the given patterns are left untouched.
func NewGroup(fields []Field, opts ...Option) (*GroupPattern, error) {
	return newGroup(fields, opts, rootPath)
}

func newGroup(fields []Field, opts []Option, at pathRef) (*GroupPattern, error) {
	g := &GroupPattern{
		node:   newNode(KindGroup, opts),
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	keys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		fat := at.Field(f.Key)
		if f.Pattern == nil {
			return nil, patternError(CodeInvalidSpec, fat, nil, nil)
		}
		if f.Name == "" {
			return nil, patternError(CodeInvalidName, fat.Field(SpecName), f.Name, nil)
		}
		if _, dup := keys[f.Key]; dup {
			return nil, patternError(CodeDuplicateKey, fat, f.Key, nil)
		}
		if _, dup := g.byName[f.Name]; dup {
			return nil, patternError(CodeDuplicateName, fat, f.Name, nil)
		}
		keys[f.Key] = struct{}{}
		g.byName[f.Name] = len(g.fields)
		g.fields = append(g.fields, Field{Key: f.Key, Name: f.Name, Pattern: f.Pattern.withName(f.Name)})
	}
	return g, nil
}

// Fields returns the declared children in order.
func (g *GroupPattern) Fields() []Field { return append([]Field(nil), g.fields...) }

// Child returns the direct child published under name.
func (g *GroupPattern) Child(name string) (Pattern, bool) {
	i, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.fields[i].Pattern, true
}

func (g *GroupPattern) Parse(v any) (*Value, error) { return g.parseAt(v, rootPath) }

// Clean yields no scalar; groups hold their children instead.
func (g *GroupPattern) Clean(any) (any, error) { return nil, nil }

func (g *GroupPattern) withName(name string) Pattern {
	c := *g
	c.name = name
	return &c
}

func (g *GroupPattern) parseAt(v any, at pathRef) (*Value, error) {
	v, err := g.resolve(v, at)
	if err != nil || v == nil {
		return nil, err
	}
	rest, ok := asObject(v)
	if !ok {
		return nil, valueError(CodeInvalidType, at, v, msg{"expected": "mapping"})
	}
	out := &Value{
		kind:    GroupValue,
		raw:     v,
		pattern: g,
		names:   make([]string, 0, len(g.fields)),
		fields:  make(map[string]*Value, len(g.fields)),
	}
	for _, f := range g.fields {
		cv, err := f.Pattern.parseAt(rest.Pop(f.Key), at.Field(f.Name))
		if err != nil {
			return nil, err
		}
		out.names = append(out.names, f.Name)
		out.fields[f.Name] = cv
	}
	if rest.Len() > 0 {
		keys := rest.Keys()
		return nil, valueError(CodeUnknownKey, at, keys, msg{"keys": strings.Join(keys, ", ")})
	}
	return out, nil
}

// Item resolves a "__"-delimited symbolic path by descending through nested
// groups by child name.
func (g *GroupPattern) Item(path string) (Pattern, error) {
	var cur Pattern = g
	for _, name := range SplitPath(path) {
		grp, ok := cur.(*GroupPattern)
		if !ok {
			return nil, patternError(CodePathNotFound, rootPath, path, nil)
		}
		child, ok := grp.Child(name)
		if !ok {
			return nil, patternError(CodePathNotFound, rootPath, path, nil)
		}
		cur = child
	}
	return cur, nil
}

// asObject returns a private, poppable copy of mapping-shaped input. A
// sequence of [key, value] pairs is accepted as a mapping; a repeated key
// keeps its first position and its last value.
func asObject(v any) (*raw.Object, bool) {
	switch t := v.(type) {
	case *raw.Object:
		return t.Clone(), true
	case map[string]any:
		return raw.FromMap(t), true
	case []any:
		o := raw.NewObject()
		for _, e := range t {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil, false
			}
			k, ok := pair[0].(string)
			if !ok {
				return nil, false
			}
			o.Set(k, pair[1])
		}
		return o, true
	default:
		return nil, false
	}
}
