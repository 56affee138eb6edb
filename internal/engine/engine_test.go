package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/qskema/raw"
)

// sliceSource replays a fixed token sequence.
type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func toks(ts ...Token) *sliceSource { return &sliceSource{toks: ts} }

var (
	bo = Token{Kind: KindBeginObject}
	eo = Token{Kind: KindEndObject}
	ba = Token{Kind: KindBeginArray}
	ea = Token{Kind: KindEndArray}
)

func key(s string) Token { return Token{Kind: KindKey, Text: s} }
func str(s string) Token { return Token{Kind: KindString, Text: s} }
func num(s string) Token { return Token{Kind: KindNumber, Text: s} }

func TestDecodeOrdered(t *testing.T) {
	v, err := DecodeOrdered(toks(
		bo,
		key("b"), num("1"),
		key("a"), ba, num("1.5"), str("x"), Token{Kind: KindBool, Bool: true}, Token{Kind: KindNull}, ea,
		key("c"), bo, eo,
		key("big"), num("123456789012345678901234567890"),
		eo,
	))
	require.NoError(t, err)
	o, ok := v.(*raw.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "c", "big"}, o.Keys())

	b, _ := o.Get("b")
	assert.Equal(t, int64(1), b)
	a, _ := o.Get("a")
	assert.Equal(t, []any{1.5, "x", true, nil}, a)
	c, _ := o.Get("c")
	assert.Equal(t, 0, c.(*raw.Object).Len())
	big, _ := o.Get("big")
	assert.IsType(t, float64(0), big)
}

func TestDecodeOrdered_Errors(t *testing.T) {
	_, err := DecodeOrdered(toks())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = DecodeOrdered(toks(bo, key("a")))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = DecodeOrdered(toks(ba, num("1")))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = DecodeOrdered(toks(str("a"), str("b")))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "parse_error", ie.Code)

	_, err = DecodeOrdered(toks(bo, str("a"), num("1"), eo))
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, ie.Message, "object key expected")

	_, err = DecodeOrdered(toks(eo))
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, ie.Message, "value expected")
}

func TestDecodeOrdered_EmptyArray(t *testing.T) {
	v, err := DecodeOrdered(toks(ba, ea))
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
}

func TestEnforce_DuplicateKeys(t *testing.T) {
	src := toks(bo, key("x"), bo, key("a"), num("1"), key("a"), num("2"), eo, eo)
	_, err := DecodeOrdered(WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "duplicate_key", ie.Code)
	assert.Equal(t, "/x/a", ie.Path)

	src = toks(bo, key("a"), num("1"), key("a"), num("2"), eo)
	v, err := DecodeOrdered(WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupIgnore}))
	require.NoError(t, err)
	a, _ := v.(*raw.Object).Get("a")
	assert.Equal(t, int64(2), a)
}

func TestEnforce_PathsInArrays(t *testing.T) {
	src := toks(ba, num("0"), bo, key("k/1"), num("1"), key("k/1"), num("2"), eo, ea)
	_, err := DecodeOrdered(WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "/1/k~11", ie.Path)
}

func TestEnforce_MaxDepth(t *testing.T) {
	src := toks(ba, ba, ba, ea, ea, ea)
	_, err := DecodeOrdered(WrapWithEnforcement(src, EnforceOptions{MaxDepth: 2}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "parse_error", ie.Code)
	assert.Equal(t, "/0/0", ie.Path)

	src = toks(ba, ba, ea, ea)
	_, err = DecodeOrdered(WrapWithEnforcement(src, EnforceOptions{MaxDepth: 2}))
	assert.NoError(t, err)
}
