// Package gojson feeds JSON schema documents to the engine through
// goccy/go-json's streaming decoder.
package gojson

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/qskema/internal/engine"
)

type source struct {
	dec *j.Decoder
	// open holds '{' or '[' for every container not yet closed.
	open []j.Delim
	// wantKey is set while the innermost object expects a key.
	wantKey bool
}

// NewReader returns a TokenSource reading JSON from r. Numbers are kept as
// literals so that the engine decides their Go type.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes is NewReader over b.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok := eng.Token{Offset: s.dec.InputOffset()}
	t, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := t.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.open = append(s.open, v)
			s.wantKey = true
			tok.Kind = eng.KindBeginObject
			return tok, nil
		case '[':
			s.open = append(s.open, v)
			s.wantKey = false
			tok.Kind = eng.KindBeginArray
			return tok, nil
		case '}':
			tok.Kind = eng.KindEndObject
		default:
			tok.Kind = eng.KindEndArray
		}
		if n := len(s.open); n > 0 {
			s.open = s.open[:n-1]
		}
	case string:
		if s.wantKey {
			s.wantKey = false
			tok.Kind, tok.Text = eng.KindKey, v
			return tok, nil
		}
		tok.Kind, tok.Text = eng.KindString, v
	case j.Number:
		// the decoder may alias its read buffer
		tok.Kind, tok.Text = eng.KindNumber, strings.Clone(string(v))
	case bool:
		tok.Kind, tok.Bool = eng.KindBool, v
	case nil:
		tok.Kind = eng.KindNull
	default:
		return eng.Token{}, fmt.Errorf("gojson: unexpected token %T", t)
	}
	// a complete value inside an object is followed by the next key
	s.wantKey = s.inObject()
	return tok, nil
}

func (s *source) Location() int64 { return s.dec.InputOffset() }

func (s *source) inObject() bool {
	n := len(s.open)
	return n > 0 && s.open[n-1] == '{'
}
