package qskema

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"
)

// Entry is one row of a mapping table.
type Entry struct {
	Key   string
	Value any
}

// Table is an ordered lookup table. Keys are unique, values may repeat.
type Table []Entry

// TableOf builds a table from alternating key/value arguments.
//
//	qskema.TableOf("0", "foo", "1", "bar")
func TableOf(kv ...any) (Table, error) {
	if len(kv)%2 != 0 {
		return nil, patternError(CodeInvalidTable, rootPath, kv, nil)
	}
	t := make(Table, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := tableKey(kv[i])
		if !ok {
			return nil, patternError(CodeInvalidTable, rootPath, kv[i], nil)
		}
		t = append(t, Entry{Key: k, Value: kv[i+1]})
	}
	return t, nil
}

// MappingPattern maps discrete input keys to arbitrary values and supports
// the reverse lookup.
type MappingPattern struct {
	node
	table Table
	index map[string]int
}

// NewMapping returns a Mapping pattern. Duplicate keys are rejected.
func NewMapping(table Table, opts ...Option) (*MappingPattern, error) {
	return newMapping(table, opts, rootPath)
}

func newMapping(table Table, opts []Option, at pathRef) (*MappingPattern, error) {
	p := &MappingPattern{
		node:  newNode(KindMapping, opts),
		table: append(Table(nil), table...),
		index: make(map[string]int, len(table)),
	}
	for i, e := range p.table {
		if _, dup := p.index[e.Key]; dup {
			return nil, patternError(CodeDuplicateKey, at.Field("table"), e.Key, nil)
		}
		p.index[e.Key] = i
	}
	return p, nil
}

// Table returns a copy of the lookup table.
func (p *MappingPattern) Table() Table { return append(Table(nil), p.table...) }

func (p *MappingPattern) Parse(v any) (*Value, error) { return p.parseAt(v, rootPath) }

// Clean is the forward lookup.
func (p *MappingPattern) Clean(v any) (any, error) { return p.clean(v, rootPath) }

func (p *MappingPattern) parseAt(v any, at pathRef) (*Value, error) {
	return parseScalar(p, &p.node, v, at, p.clean)
}

func (p *MappingPattern) withName(name string) Pattern {
	c := *p
	c.name = name
	return &c
}

func (p *MappingPattern) clean(v any, at pathRef) (any, error) {
	var key string
	switch t := v.(type) {
	case string:
		key = t
	case []byte:
		key = string(t)
	default:
		// integer keys were stored as text by TableOf
		k, ok := tableKey(v)
		if !ok {
			return nil, valueError(CodeInvalidEnum, at, v, nil)
		}
		key = k
	}
	i, ok := p.index[key]
	if !ok {
		return nil, valueError(CodeInvalidEnum, at, v, nil)
	}
	return p.table[i].Value, nil
}

// Reverse returns every key mapping to value, in table order. It fails when
// no key matches.
func (p *MappingPattern) Reverse(value any) ([]string, error) {
	var keys []string
	for _, e := range p.table {
		if sameValue(e.Value, value) {
			keys = append(keys, e.Key)
		}
	}
	if len(keys) == 0 {
		return nil, valueError(CodeReverseFailed, rootPath, value, nil)
	}
	return keys, nil
}

// sameValue compares table values; numbers compare by value across Go
// numeric types so that 42, int64(42) and json.Number("42") match.
func sameValue(a, b any) bool {
	if ra, ok := asRat(a); ok {
		if rb, ok := asRat(b); ok {
			return ra.Cmp(rb) == 0
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta.Comparable() && tb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func asRat(v any) (*big.Rat, bool) {
	switch t := v.(type) {
	case bool, string, nil:
		return nil, false
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(t) == nil {
			return nil, false
		}
		return r, true
	case float32:
		return asRat(float64(t))
	case json.Number:
		r, ok := new(big.Rat).SetString(t.String())
		return r, ok
	case *big.Int:
		return new(big.Rat).SetInt(t), true
	}
	if i, ok := toInt(v); ok {
		return new(big.Rat).SetInt64(i), true
	}
	if n, ok := toBigInt(v); ok {
		return new(big.Rat).SetInt(n), true
	}
	return nil, false
}

func tableKey(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}
