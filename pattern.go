package qskema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/reoring/qskema/raw"
)

// Kind enumerates the pattern node variants. The set is closed: schema
// specifications can only select one of these by name.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumeric
	KindBoolean
	KindMapping
	KindList
	KindGroup
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindNumeric: "numeric",
	KindBoolean: "boolean",
	KindMapping: "mapping",
	KindList:    "list",
	KindGroup:   "group",
}

// kindAliases is the lookup-by-name registry used by schema specifications.
var kindAliases = map[string]Kind{
	"string":  KindString,
	"numeric": KindNumeric,
	"number":  KindNumeric,
	"boolean": KindBoolean,
	"bool":    KindBoolean,
	"mapping": KindMapping,
	"list":    KindList,
	"group":   KindGroup,
	"dict":    KindGroup,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind resolves a type name of a schema specification.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindAliases[name]
	return k, ok
}

// Pattern describes the expected shape of one piece of input data.
//
// Parse returns a nil *Value (and nil error) when the input is absent, not
// required and no default is configured. Implementations are immutable and
// safe for concurrent use.
type Pattern interface {
	Kind() Kind
	// Name is the symbolic name assigned by the enclosing group ("" at the root).
	Name() string
	Required() bool
	// Default is the raw fallback used for absent input (nil when unset).
	Default() any
	// Clean validates and coerces a present raw value. Containers return nil.
	Clean(v any) (any, error)
	Parse(v any) (*Value, error)

	parseAt(v any, at pathRef) (*Value, error)
	withName(name string) Pattern
}

// Option configures the capabilities shared by every pattern node.
type Option func(*node)

// Required makes absent input a validation failure. It takes precedence over
// Default.
func Required(on bool) Option { return func(n *node) { n.required = on } }

// Default sets the raw value substituted for absent input. nil leaves the
// default unset.
func Default(v any) Option { return func(n *node) { n.def = v } }

// presencePolicy intercepts absent input before the variant's clean step.
// handled=false defers to the next policy in the chain.
type presencePolicy interface {
	absent(n *node, at pathRef) (v any, handled bool, err error)
}

type requiredPolicy struct{}

func (requiredPolicy) absent(n *node, at pathRef) (any, bool, error) {
	return nil, true, valueError(CodeRequired, at, nil, msg{"name": n.label()})
}

type defaultPolicy struct{ value any }

func (p defaultPolicy) absent(*node, pathRef) (any, bool, error) { return p.value, true, nil }

// node carries the fields common to all variants.
type node struct {
	kind     Kind
	name     string
	required bool
	def      any
	policies []presencePolicy
}

func newNode(kind Kind, opts []Option) node {
	n := node{kind: kind}
	for _, o := range opts {
		if o != nil {
			o(&n)
		}
	}
	// required is consulted first so that it overrides a default
	if n.required {
		n.policies = append(n.policies, requiredPolicy{})
	}
	if n.def != nil {
		n.policies = append(n.policies, defaultPolicy{value: n.def})
	}
	return n
}

func (n *node) Kind() Kind     { return n.kind }
func (n *node) Name() string   { return n.name }
func (n *node) Required() bool { return n.required }
func (n *node) Default() any   { return n.def }

func (n *node) label() string {
	if n.name != "" {
		return n.name
	}
	return n.kind.String()
}

// resolve applies the presence policies. A nil result with a nil error means
// the value stays absent.
func (n *node) resolve(v any, at pathRef) (any, error) {
	if v != nil {
		return v, nil
	}
	for _, p := range n.policies {
		r, handled, err := p.absent(n, at)
		if err != nil {
			return nil, err
		}
		if handled {
			return r, nil
		}
	}
	return nil, nil
}

// parseScalar is the shared parse path of the scalar variants.
func parseScalar(p Pattern, n *node, v any, at pathRef, clean func(any, pathRef) (any, error)) (*Value, error) {
	v, err := n.resolve(v, at)
	if err != nil || v == nil {
		return nil, err
	}
	c, err := clean(v, at)
	if err != nil {
		return nil, err
	}
	return &Value{kind: ScalarValue, raw: v, value: c, pattern: p}, nil
}

// display renders a value for messages and for the String pattern fallback.
func display(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case json.Number:
		return t.String()
	case *raw.Object:
		b, err := t.MarshalJSON()
		if err != nil {
			return fmt.Sprint(t.ToMap())
		}
		return string(b)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
