package qskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/qskema/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	// Value errors: the input data does not satisfy the pattern.
	CodeRequired        = "required"
	CodeInvalidType     = "invalid_type"
	CodeUnknownKey      = "unknown_key"
	CodeInvalidNumber   = "invalid_number"
	CodeInvalidBoolean  = "invalid_boolean"
	CodeInvalidEnum     = "invalid_enum"
	CodeReverseFailed   = "reverse_failed"
	CodeInvalidEncoding = "invalid_encoding"
	CodeCoerceFailed    = "coerce_failed"
	CodeParseError      = "parse_error"

	// Pattern errors: the schema itself is malformed or wrongly addressed.
	CodeUnknownOption = "unknown_option"
	CodeUnknownType   = "unknown_type"
	CodeMissingItem   = "missing_item"
	CodeInvalidName   = "invalid_name"
	CodeDuplicateName = "duplicate_name"
	CodeInvalidTable  = "invalid_table"
	CodeDuplicateKey  = "duplicate_key"
	CodeInvalidSpec   = "invalid_spec"
	CodePathNotFound  = "path_not_found"
	CodeNotMapping    = "not_mapping"
)

// Class tells apart "the schema is wrong" from "the data is wrong".
type Class int

const (
	ClassPattern Class = iota + 1 // Malformed schema or bad traversal path.
	ClassValue                    // Input data failed validation.
)

func (c Class) String() string {
	switch c {
	case ClassPattern:
		return "pattern"
	case ClassValue:
		return "value"
	default:
		return "unknown"
	}
}

var (
	// ErrNode matches every error produced by this package.
	ErrNode = errors.New("qskema: node error")
	// ErrPattern matches pattern definition errors.
	ErrPattern = errors.New("qskema: pattern error")
	// ErrValue matches value validation errors.
	ErrValue = errors.New("qskema: value error")
)

// Error is the single error type of the package. Use errors.Is with
// ErrNode/ErrPattern/ErrValue, or AsError to inspect the fields.
type Error struct {
	Class   Class
	Code    string // One of the codes listed above.
	Path    string // JSON Pointer of the offending value (or spec location for pattern errors).
	Message string
	Value   any   // Optional: offending input or configuration value.
	Cause   error // Optional: underlying error.
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s error: %s", e.Class, e.Code)
	if e.Path != "" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches the sentinel of the error class and the ErrNode family.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNode:
		return true
	case ErrPattern:
		return e.Class == ClassPattern
	case ErrValue:
		return e.Class == ClassValue
	}
	return false
}

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsPatternError reports whether err is a pattern definition error.
func IsPatternError(err error) bool { return errors.Is(err, ErrPattern) }

// IsValueError reports whether err is a value validation error.
func IsValueError(err error) bool { return errors.Is(err, ErrValue) }

// msg carries the template data of an error message.
type msg map[string]string

func valueError(code string, at pathRef, value any, data msg) *Error {
	return newError(ClassValue, code, at, value, data)
}

func patternError(code string, at pathRef, value any, data msg) *Error {
	return newError(ClassPattern, code, at, value, data)
}

func newError(class Class, code string, at pathRef, value any, data msg) *Error {
	if data == nil {
		data = msg{}
	}
	if _, ok := data["value"]; !ok {
		data["value"] = display(value)
	}
	return &Error{
		Class:   class,
		Code:    code,
		Path:    at.Pointer(),
		Message: i18n.T(code, data),
		Value:   value,
	}
}

// NewValueError builds a value error for collaborators (query decoders,
// transports) that reject input before it reaches a pattern.
func NewValueError(code, message string, value any, cause error) *Error {
	if message == "" {
		message = i18n.T(code, map[string]string{"value": display(value)})
	}
	return &Error{Class: ClassValue, Code: code, Path: "/", Message: message, Value: value, Cause: cause}
}
