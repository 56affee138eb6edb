// Package coerce provides ready-made converters for qskema.Map and
// qskema.Unmap results.
//
// Each converter has the qskema.Coerce signature. Conversion failures are
// returned as plain errors; Map and Unmap wrap them as coerce_failed value
// errors.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/reoring/qskema"
)

var (
	_ qskema.Coerce = Identity
	_ qskema.Coerce = String
	_ qskema.Coerce = Int
	_ qskema.Coerce = Float
	_ qskema.Coerce = Bool
	_ qskema.Coerce = TimeRFC3339
)

// Identity returns v unchanged.
func Identity(v any) (any, error) { return v, nil }

// String renders v as text.
func String(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case time.Time:
		return formatRFC3339Canonical(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Int converts integers, integral floats, booleans and decimal integer text
// to int64.
func Int(v any) (any, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return int64(1), nil
		}
		return int64(0), nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint64:
		if t > math.MaxInt64 {
			return nil, fmt.Errorf("coerce: %d overflows int64", t)
		}
		return int64(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return nil, fmt.Errorf("coerce: %v is not an integer", t)
		}
		return int64(t), nil
	case json.Number:
		return parseInt(string(t))
	case string:
		return parseInt(t)
	case []byte:
		return parseInt(string(t))
	default:
		return nil, fmt.Errorf("coerce: cannot convert %T to int", v)
	}
}

func parseInt(s string) (any, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("coerce: %q is not an integer: %w", s, err)
	}
	return i, nil
}

// Float converts numbers, booleans and numeric text to float64.
func Float(v any) (any, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return 1.0, nil
		}
		return 0.0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return parseFloat(string(t))
	case string:
		return parseFloat(t)
	case []byte:
		return parseFloat(string(t))
	default:
		return nil, fmt.Errorf("coerce: cannot convert %T to float", v)
	}
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("coerce: %q is not a number: %w", s, err)
	}
	return f, nil
}

// Bool reports the truthiness of v: false for nil, zero numbers and empty
// text or containers, true otherwise. Text is not interpreted, so "0" is
// true.
func Bool(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		return t != "", nil
	case int:
		return t != 0, nil
	case int64:
		return t != 0, nil
	case float64:
		return t != 0, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("coerce: %q is not a number: %w", string(t), err)
		}
		return f != 0, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0, nil
	default:
		return true, nil
	}
}

// TimeRFC3339 parses RFC3339 text (fractional seconds optional) into a
// time.Time. A time.Time passes through.
func TimeRFC3339(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseRFC3339(t)
	case []byte:
		return parseRFC3339(string(t))
	default:
		return nil, fmt.Errorf("coerce: cannot convert %T to time", v)
	}
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, fmt.Errorf("coerce: invalid RFC3339 time %q: %w", s, err)
	}
	return t, nil
}

// formatRFC3339Canonical normalizes to UTC; RFC3339Nano trims trailing zeros.
func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
