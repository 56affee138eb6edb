package query

import (
	"net/url"
	"slices"
	"strings"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/raw"
)

// Pairs splits a raw query string on '&' and percent-decodes every key and
// value, keeping input order. Keys without '=' get an empty value; empty
// segments are skipped.
func Pairs(rawQuery string) ([]Pair, error) {
	var pairs []Pair
	for _, seg := range strings.Split(rawQuery, "&") {
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, "=")
		dk, err := url.QueryUnescape(k)
		if err != nil {
			return nil, qskema.NewValueError(qskema.CodeParseError, "", seg, err)
		}
		dv, err := url.QueryUnescape(v)
		if err != nil {
			return nil, qskema.NewValueError(qskema.CodeParseError, "", seg, err)
		}
		pairs = append(pairs, Pair{Key: dk, Value: dv})
	}
	return pairs, nil
}

// Decode is Pairs followed by Build.
func Decode(rawQuery string, syntax Syntax) (*raw.Object, error) {
	pairs, err := Pairs(rawQuery)
	if err != nil {
		return nil, err
	}
	return Build(pairs, syntax), nil
}

// Validate decodes rawQuery and parses it against the root schema.
func Validate(root *qskema.GroupPattern, rawQuery string, syntax Syntax) (*qskema.Value, error) {
	data, err := Decode(rawQuery, syntax)
	if err != nil {
		return nil, err
	}
	return root.Parse(data)
}

// FromValues converts url.Values into pairs. url.Values does not keep the
// order of distinct keys, so keys are sorted; values of one key keep their
// order.
func FromValues(values url.Values) []Pair {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var pairs []Pair
	for _, k := range keys {
		for _, v := range values[k] {
			pairs = append(pairs, Pair{Key: k, Value: v})
		}
	}
	return pairs
}
