package coerce_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/coerce"
)

func TestInt(t *testing.T) {
	ok := map[string]struct {
		in   any
		want int64
	}{
		"text":        {"42", 42},
		"padded text": {" 7 ", 7},
		"negative":    {"-3", -3},
		"int":         {5, 5},
		"float":       {2.0, 2},
		"number":      {json.Number("11"), 11},
		"true":        {true, 1},
	}
	for name, tc := range ok {
		got, err := coerce.Int(tc.in)
		require.NoError(t, err, name)
		assert.Equal(t, tc.want, got, name)
	}
	for _, bad := range []any{"4.5", "foo", 1.5, nil, []any{}} {
		_, err := coerce.Int(bad)
		assert.Error(t, err, "%#v", bad)
	}
}

func TestFloat(t *testing.T) {
	got, err := coerce.Float("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)

	got, err = coerce.Float(int64(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	_, err = coerce.Float("x")
	assert.Error(t, err)
}

func TestBool(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{"0", true},
		{"", false},
		{0, false},
		{int64(4), true},
		{0.0, false},
		{nil, false},
		{[]any{}, false},
		{[]any{"a"}, true},
		{map[string]any{}, false},
		{true, true},
	}
	for _, tc := range cases {
		got, err := coerce.Bool(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%#v", tc.in)
	}
}

func TestString(t *testing.T) {
	for in, want := range map[any]string{
		"a":         "a",
		int64(42):   "42",
		true:        "true",
		1.5:         "1.5",
		float64(10): "10",
	} {
		got, err := coerce.String(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestTimeRFC3339(t *testing.T) {
	got, err := coerce.TimeRFC3339("2025-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.(time.Time).Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	s, err := coerce.String(got)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:00Z", s)

	_, err = coerce.TimeRFC3339("yesterday")
	assert.Error(t, err)
}

var schema = map[string]any{
	"0": map[string]any{"type": "string", "name": "foo"},
	"1": map[string]any{
		"type": "group",
		"name": "spam",
		"items": map[string]any{
			"0": map[string]any{"type": "mapping", "name": "eggs", "table": map[string]any{"0": "foo", "1": "bar", "2": "ham"}},
			"2": map[string]any{
				"type": "group",
				"name": "foo",
				"items": map[string]any{
					"0": map[string]any{"type": "mapping", "name": "42", "table": map[string]any{"0": "42"}},
					"1": map[string]any{
						"type": "group",
						"name": "bar",
						"items": map[string]any{
							"0": map[string]any{"type": "mapping", "name": "spam", "table": map[string]any{
								"0": "foo", "1": "bar", "2": "bar", "3": "foo", "4": "ham",
							}},
						},
					},
				},
			},
		},
	},
}

func TestMap_WithCoercion(t *testing.T) {
	got, err := qskema.Map(schema, "spam__foo__42", "0", coerce.String)
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = qskema.Map(schema, "spam__foo__42", "0", coerce.Int)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = qskema.Map(schema, "spam__eggs", "0", coerce.String)
	require.NoError(t, err)
	assert.Equal(t, "foo", got)

	got, err = qskema.Map(schema, "spam__eggs", "0", coerce.Bool)
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestUnmap_WithCoercion(t *testing.T) {
	got, err := qskema.Unmap(schema, "spam__foo__bar__spam", "ham", coerce.String)
	require.NoError(t, err)
	assert.Equal(t, "4", got)

	got, err = qskema.Unmap(schema, "spam__foo__bar__spam", "ham", coerce.Int)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	got, err = qskema.Unmap(schema, "spam__foo__bar__spam", []any{"foo", "bar"}, coerce.Int)
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{int64(0), int64(1), int64(2), int64(3)}, got)

	got, err = qskema.Unmap(schema, "spam__foo__bar__spam", []any{"foo", "bar"}, coerce.Bool)
	require.NoError(t, err)
	assert.Equal(t, []any{true, true, true, true}, got)
}

func TestMap_CoercionFailure(t *testing.T) {
	_, err := qskema.Map(schema, "spam__eggs", "0", coerce.Int)
	require.Error(t, err)
	e, ok := qskema.AsError(err)
	require.True(t, ok)
	assert.Equal(t, qskema.CodeCoerceFailed, e.Code)
	assert.True(t, qskema.IsValueError(err))
}
