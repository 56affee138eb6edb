// Package engine turns a stream of JSON-like tokens into the ordered raw
// trees that schema specifications are compiled from.
package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/reoring/qskema/raw"
)

// Kind is the lexical class of a Token.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is one lexical element. Text holds the key, the string value or the
// number literal; Bool holds boolean values. Offset is the approximate input
// offset where the token starts.
type Token struct {
	Kind   Kind
	Text   string
	Bool   bool
	Offset int64
}

// TokenSource yields tokens until io.EOF.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Decoder builds one raw tree from a TokenSource.
type Decoder struct {
	src TokenSource
}

// NewDecoder returns a decoder reading from src.
func NewDecoder(src TokenSource) *Decoder { return &Decoder{src: src} }

// DecodeOrdered is NewDecoder(src).Decode().
func DecodeOrdered(src TokenSource) (any, error) { return NewDecoder(src).Decode() }

// Decode reads exactly one top-level value. Objects keep their key order
// (*raw.Object), arrays become []any, integral numbers int64 and other
// numbers float64. A later duplicate key overwrites the earlier value in
// place; wrap the source with WrapWithEnforcement to reject it instead.
func (d *Decoder) Decode() (any, error) {
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	switch tok, err := d.src.NextToken(); {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return nil, err
	default:
		return nil, d.unexpected(tok, "data after top-level value")
	}
}

// read returns the next token; running out of input inside a document is
// io.ErrUnexpectedEOF.
func (d *Decoder) read() (Token, error) {
	tok, err := d.src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (d *Decoder) value() (any, error) {
	tok, err := d.read()
	if err != nil {
		return nil, err
	}
	return d.valueOf(tok)
}

// valueOf decodes the value starting with tok.
func (d *Decoder) valueOf(tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return d.object()
	case KindBeginArray:
		return d.array()
	case KindString:
		return tok.Text, nil
	case KindNumber:
		return number(tok.Text), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, d.unexpected(tok, "value expected")
	}
}

func (d *Decoder) object() (*raw.Object, error) {
	o := raw.NewObject()
	for {
		tok, err := d.read()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case KindEndObject:
			return o, nil
		case KindKey:
		default:
			return nil, d.unexpected(tok, "object key expected")
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		o.Set(tok.Text, v)
	}
}

func (d *Decoder) array() ([]any, error) {
	arr := []any{}
	for {
		tok, err := d.read()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.valueOf(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (d *Decoder) unexpected(tok Token, what string) error {
	return IssueError{
		Code:    "parse_error",
		Path:    "/",
		Message: what + " at offset " + strconv.FormatInt(tok.Offset, 10),
	}
}

// number keeps the literal as json.Number when it fits neither int64 nor
// float64.
func number(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return json.Number(s)
}
