package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int // 0 disables the check.
}

// IssueError reports a decoding failure at a JSON Pointer path.
type IssueError struct {
	Code    string
	Path    string
	Message string
}

func (e IssueError) Error() string { return e.Message + " at " + e.Path }

// WrapWithEnforcement returns a TokenSource that rejects duplicate keys
// (when opt asks for it) and containers nested deeper than opt.MaxDepth.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcer{inner: inner, opt: opt}
}

// scope is one open container. seen is nil for arrays.
type scope struct {
	seen  map[string]struct{}
	key   string
	index int
}

type enforcer struct {
	inner  TokenSource
	opt    EnforceOptions
	scopes []scope
	// segs holds the reference tokens of every open container but the root.
	segs []string
}

func (e *enforcer) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		if len(e.scopes) > 0 {
			e.segs = append(e.segs, e.member())
		}
		s := scope{}
		if tok.Kind == KindBeginObject {
			s.seen = map[string]struct{}{}
		}
		e.scopes = append(e.scopes, s)
		if e.opt.MaxDepth > 0 && len(e.scopes) > e.opt.MaxDepth {
			return Token{}, IssueError{Code: "parse_error", Path: pointer(e.segs), Message: "max depth exceeded"}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.scopes); n > 0 {
			e.scopes = e.scopes[:n-1]
		}
		if n := len(e.segs); n > 0 && len(e.scopes) > 0 {
			e.segs = e.segs[:n-1]
		}
	case KindKey:
		if n := len(e.scopes); n > 0 && e.scopes[n-1].seen != nil {
			top := &e.scopes[n-1]
			if _, dup := top.seen[tok.Text]; dup && e.opt.OnDuplicate == DupError {
				return Token{}, IssueError{
					Code:    "duplicate_key",
					Path:    pointer(append(e.segs[:len(e.segs):len(e.segs)], tok.Text)),
					Message: "key '" + tok.Text + "' duplicated",
				}
			}
			top.seen[tok.Text] = struct{}{}
			top.key = tok.Text
		}
	default:
		if len(e.scopes) > 0 {
			e.member()
		}
	}
	return tok, nil
}

// member returns the reference token of the value being read in the
// innermost container and advances array indices.
func (e *enforcer) member() string {
	top := &e.scopes[len(e.scopes)-1]
	if top.seen != nil {
		return top.key
	}
	i := top.index
	top.index++
	return strconv.Itoa(i)
}

func (e *enforcer) Location() int64 { return e.inner.Location() }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pointer renders reference tokens as a JSON Pointer; the root is "/".
func pointer(segs []string) string {
	if len(segs) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(s))
	}
	return b.String()
}
