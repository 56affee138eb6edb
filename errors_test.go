package qskema_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/i18n"
)

func TestError_Classes(t *testing.T) {
	_, perr := qskema.Compile("nope")
	_, verr := qskema.NewNumeric().Parse("x")

	assert.ErrorIs(t, perr, qskema.ErrNode)
	assert.ErrorIs(t, perr, qskema.ErrPattern)
	assert.NotErrorIs(t, perr, qskema.ErrValue)

	assert.ErrorIs(t, verr, qskema.ErrNode)
	assert.ErrorIs(t, verr, qskema.ErrValue)
	assert.NotErrorIs(t, verr, qskema.ErrPattern)

	wrapped := fmt.Errorf("handler: %w", verr)
	assert.True(t, qskema.IsValueError(wrapped))
	e, ok := qskema.AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, qskema.ClassValue, e.Class)

	_, ok = qskema.AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_Format(t *testing.T) {
	g, err := qskema.Compile(map[string]any{
		"0": map[string]any{"type": "group", "name": "spam", "items": map[string]any{
			"1": map[string]any{"type": "numeric", "name": "n", "required": true},
		}},
	})
	require.NoError(t, err)

	_, err = g.Parse(map[string]any{"0": map[string]any{}})
	require.Error(t, err)
	assert.Equal(t, "value error: required at /spam/n: n requires a value", err.Error())
}

func TestError_Translated(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")

	_, err := qskema.NewNumeric().Parse("x")
	e, _ := qskema.AsError(err)
	assert.Equal(t, "x は有効な数値ではありません", e.Message)

	// codes without a ja entry fall back to English
	_, err = qskema.Compile(map[string]any{"0": map[string]any{"type": "string", "name": []any{}}})
	e, _ = qskema.AsError(err)
	assert.Equal(t, qskema.CodeInvalidName, e.Code)
	assert.Contains(t, e.Message, "is not a valid item name")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	e := qskema.NewValueError(qskema.CodeParseError, "", "a=%zz", cause)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "/", e.Path)
	assert.Contains(t, e.Message, "a=%zz")
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "pattern", qskema.ClassPattern.String())
	assert.Equal(t, "value", qskema.ClassValue.String())
}
