// Package query turns flat (path, value) pairs such as those of an HTTP
// query string into the raw nested structure consumed by qskema patterns.
//
// Two path syntaxes are supported:
//
//	Bracket: a[b][c]=v
//	Dotted:  a.b.c=v
//
// Repeated identical paths collapse into a sequence of all their values in
// encounter order. A nested mapping shadows a scalar at the same key,
// whichever came first.
package query

import (
	"strings"

	"github.com/reoring/qskema/raw"
)

// Pair is one already percent-decoded key/value pair.
type Pair struct {
	Key   string
	Value string
}

// Syntax selects the path notation of pair keys.
type Syntax int

const (
	Bracket Syntax = iota + 1
	Dotted
)

func (s Syntax) String() string {
	switch s {
	case Bracket:
		return "bracket"
	case Dotted:
		return "dotted"
	default:
		return "unknown"
	}
}

// ParseSyntax accepts "bracket" (or "v1") and "dotted" (or "dot", "v2").
func ParseSyntax(name string) (Syntax, bool) {
	switch strings.ToLower(name) {
	case "bracket", "v1":
		return Bracket, true
	case "dotted", "dot", "v2":
		return Dotted, true
	default:
		return 0, false
	}
}

// Split splits a key into path components according to s.
func (s Syntax) Split(key string) []string {
	if s == Dotted {
		return SplitDotted(key)
	}
	return SplitBracket(key)
}

// SplitBracket splits "a[b][c]" into [a b c]. Empty components are dropped;
// text after an unterminated '[' is kept verbatim as the last component.
func SplitBracket(key string) []string {
	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	i := strings.IndexByte(key, '[')
	if i < 0 {
		add(key)
		return parts
	}
	add(key[:i])
	rest := key[i:]
	for rest != "" {
		if rest[0] != '[' {
			// stray text between groups: "a[b]c[d]"
			j := strings.IndexByte(rest, '[')
			if j < 0 {
				add(rest)
				break
			}
			add(rest[:j])
			rest = rest[j:]
			continue
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			add(rest)
			break
		}
		add(rest[1:end])
		rest = rest[end+1:]
	}
	return parts
}

// SplitDotted splits "a.b.c" into [a b c], dropping empty components.
func SplitDotted(key string) []string {
	var parts []string
	for _, p := range strings.Split(key, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Build folds pairs, in order, into a raw nested structure.
func Build(pairs []Pair, syntax Syntax) *raw.Object {
	root := raw.NewObject()
	for _, p := range pairs {
		insert(root, syntax.Split(p.Key), p.Value)
	}
	return root
}

func insert(root *raw.Object, path []string, value string) {
	if len(path) == 0 {
		return
	}
	cur := root
	for _, k := range path[:len(path)-1] {
		next, ok := cur.Get(k)
		obj, isObj := next.(*raw.Object)
		if !ok || !isObj {
			// a mapping replaces whatever scalar or sequence was here
			obj = raw.NewObject()
			cur.Set(k, obj)
		}
		cur = obj
	}
	leaf := path[len(path)-1]
	switch old := mustGet(cur, leaf).(type) {
	case nil:
		cur.Set(leaf, value)
	case string:
		cur.Set(leaf, []any{old, value})
	case []any:
		cur.Set(leaf, append(old, value))
	case *raw.Object:
		// shadowed by the nested mapping
	}
}

func mustGet(o *raw.Object, k string) any {
	v, _ := o.Get(k)
	return v
}
