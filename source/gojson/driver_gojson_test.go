package gojson_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eng "github.com/reoring/qskema/internal/engine"
	"github.com/reoring/qskema/source/gojson"
)

func collect(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, tok)
	}
}

func TestNextToken_KeysAndValues(t *testing.T) {
	got := collect(t, gojson.NewBytes([]byte(`{"a":"x","b":{"c":[1,"d"]},"e":true,"f":null}`)))
	kinds := make([]eng.Kind, len(got))
	for i, tok := range got {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindString, eng.KindEndArray, eng.KindEndObject,
		eng.KindKey, eng.KindBool,
		eng.KindKey, eng.KindNull,
		eng.KindEndObject,
	}, kinds)
	assert.Equal(t, "a", got[1].Text)
	assert.Equal(t, "1", got[7].Text)
	assert.Equal(t, "d", got[8].Text)
}

func TestDecodeOrdered_ViaGoJSON(t *testing.T) {
	v, err := eng.DecodeOrdered(gojson.NewReader(strings.NewReader(`{"z":1,"a":2.5,"m":["x"]}`)))
	require.NoError(t, err)
	b, err := jsonOf(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2.5,"m":["x"]}`, b)
}

func TestDuplicateKey_ViaGoJSON(t *testing.T) {
	src := eng.WrapWithEnforcement(gojson.NewBytes([]byte(`{"a":{"b":1,"b":2}}`)), eng.EnforceOptions{OnDuplicate: eng.DupError})
	_, err := eng.DecodeOrdered(src)
	var ie eng.IssueError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "/a/b", ie.Path)
}

func TestNextToken_NestedArraysInObject(t *testing.T) {
	got := collect(t, gojson.NewBytes([]byte(`{"a":[[1],{"b":"c"}],"d":"e"}`)))
	var keys []string
	for _, tok := range got {
		if tok.Kind == eng.KindKey {
			keys = append(keys, tok.Text)
		}
	}
	assert.Equal(t, []string{"a", "b", "d"}, keys)
}
