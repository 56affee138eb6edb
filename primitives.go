package qskema

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// StringPattern coerces any present input into text.
type StringPattern struct{ node }

// NewString returns a String pattern.
func NewString(opts ...Option) *StringPattern {
	return &StringPattern{node: newNode(KindString, opts)}
}

func (p *StringPattern) Parse(v any) (*Value, error) { return p.parseAt(v, rootPath) }

func (p *StringPattern) Clean(v any) (any, error) { return p.clean(v, rootPath) }

func (p *StringPattern) parseAt(v any, at pathRef) (*Value, error) {
	return parseScalar(p, &p.node, v, at, p.clean)
}

func (p *StringPattern) withName(name string) Pattern {
	c := *p
	c.name = name
	return &c
}

// clean decodes byte input as UTF-8 and renders anything else in its display
// form.
func (p *StringPattern) clean(v any, at pathRef) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		out, _, err := transform.Bytes(encoding.UTF8Validator, t)
		if err != nil {
			e := valueError(CodeInvalidEncoding, at, v, nil)
			e.Cause = err
			return nil, e
		}
		return string(out), nil
	default:
		return display(v), nil
	}
}

// NumericPattern coerces input into an int64. Integers outside the int64
// range become *big.Int; other numbers become float64.
type NumericPattern struct{ node }

// NewNumeric returns a Numeric pattern.
func NewNumeric(opts ...Option) *NumericPattern {
	return &NumericPattern{node: newNode(KindNumeric, opts)}
}

func (p *NumericPattern) Parse(v any) (*Value, error) { return p.parseAt(v, rootPath) }

func (p *NumericPattern) Clean(v any) (any, error) { return p.clean(v, rootPath) }

func (p *NumericPattern) parseAt(v any, at pathRef) (*Value, error) {
	return parseScalar(p, &p.node, v, at, p.clean)
}

func (p *NumericPattern) withName(name string) Pattern {
	c := *p
	c.name = name
	return &c
}

func (p *NumericPattern) clean(v any, at pathRef) (any, error) {
	if n, ok := toNumber(v); ok {
		return n, nil
	}
	return nil, valueError(CodeInvalidNumber, at, v, nil)
}

// BooleanPattern interprets input as an integer and yields its truthiness.
type BooleanPattern struct{ node }

// NewBoolean returns a Boolean pattern.
func NewBoolean(opts ...Option) *BooleanPattern {
	return &BooleanPattern{node: newNode(KindBoolean, opts)}
}

func (p *BooleanPattern) Parse(v any) (*Value, error) { return p.parseAt(v, rootPath) }

func (p *BooleanPattern) Clean(v any) (any, error) { return p.clean(v, rootPath) }

func (p *BooleanPattern) parseAt(v any, at pathRef) (*Value, error) {
	return parseScalar(p, &p.node, v, at, p.clean)
}

func (p *BooleanPattern) withName(name string) Pattern {
	c := *p
	c.name = name
	return &c
}

func (p *BooleanPattern) clean(v any, at pathRef) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if f, ok := v.(float64); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return math.Trunc(f) != 0, nil
	}
	if f, ok := v.(float32); ok {
		return math.Trunc(float64(f)) != 0, nil
	}
	if i, ok := toInt(v); ok {
		return i != 0, nil
	}
	if n, ok := toBigInt(v); ok {
		return n.Sign() != 0, nil
	}
	return nil, valueError(CodeInvalidBoolean, at, v, nil)
}

// toNumber implements the integer-then-float coercion.
func toNumber(v any) (any, bool) {
	switch t := v.(type) {
	case bool:
		if t {
			return int64(1), true
		}
		return int64(0), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	if i, ok := toInt(v); ok {
		return i, true
	}
	if n, ok := toBigInt(v); ok {
		return n, true
	}
	s, ok := numericText(v)
	if !ok {
		return nil, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// toInt interprets integers and integer text. Floats are not integers here.
func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), t <= math.MaxInt64
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), t <= math.MaxInt64
	}
	s, ok := numericText(v)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// toBigInt covers the integers toInt rejects for overflow.
func toBigInt(v any) (*big.Int, bool) {
	switch t := v.(type) {
	case uint64:
		return new(big.Int).SetUint64(t), true
	case uint:
		return new(big.Int).SetUint64(uint64(t)), true
	}
	s, ok := numericText(v)
	if !ok || s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 10)
}

func numericText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case []byte:
		return strings.TrimSpace(string(t)), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}
