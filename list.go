package qskema

import (
	"github.com/reoring/qskema/raw"
)

// ListPattern applies one item pattern to every element of a sequence.
type ListPattern struct {
	node
	item Pattern
}

// NewList returns a List pattern over item.
func NewList(item Pattern, opts ...Option) (*ListPattern, error) {
	if item == nil {
		return nil, patternError(CodeMissingItem, rootPath, nil, msg{"type": KindList.String()})
	}
	return &ListPattern{node: newNode(KindList, opts), item: item}, nil
}

// Item returns the pattern applied to each element.
func (p *ListPattern) Item() Pattern { return p.item }

func (p *ListPattern) Parse(v any) (*Value, error) { return p.parseAt(v, rootPath) }

// Clean yields no scalar; lists hold their elements instead.
func (p *ListPattern) Clean(any) (any, error) { return nil, nil }

func (p *ListPattern) withName(name string) Pattern {
	c := *p
	c.name = name
	return &c
}

func (p *ListPattern) parseAt(v any, at pathRef) (*Value, error) {
	v, err := p.resolve(v, at)
	if err != nil || v == nil {
		return nil, err
	}
	elems, ok := asSequence(v)
	if !ok {
		return nil, valueError(CodeInvalidType, at, v, msg{"expected": "list"})
	}
	out := &Value{kind: ListValue, raw: v, pattern: p, items: make([]*Value, 0, len(elems))}
	for i, e := range elems {
		ev, err := p.item.parseAt(e, at.Index(i))
		if err != nil {
			return nil, err
		}
		out.items = append(out.items, ev)
	}
	return out, nil
}

// asSequence accepts explicit sequences, and mapping-shaped input whose
// values are taken in key order.
func asSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case *raw.Object:
		return t.Values(), true
	case map[string]any:
		return raw.FromMap(t).Values(), true
	default:
		return nil, false
	}
}
