// Package qskema validates and coerces loosely-typed, query-string-shaped
// input into a typed value tree, driven by an explicit schema ("pattern").
//
// - Pattern nodes: String, Numeric, Boolean, Mapping, List and Group (the
// keyed record every schema is rooted at), each optionally Required or with
// a Default
// - Value nodes: the immutable result tree of Parse, with back references to
// the producing patterns
// - Map/Unmap: forward and reverse lookups through Mapping patterns addressed
// by "__"-delimited symbolic paths
// - A single error type split into pattern errors (the schema is wrong) and
// value errors (the data is wrong)
//
// Design policy:
// - Keep the pattern engine in the root package; the flat-key parser lives
// in query/, the ordered raw structure in raw/, the CLI under cmd/qskema.
// - Schemas are immutable after construction and safe for concurrent Parse.
//
// Typical usage:
//
//	root, err := qskema.CompileYAML(schemaFile)
//	v, err := query.Validate(root, "foo=1&bar=1", query.Dotted)
//	name, _ := v.Get("foo")
//
//	label, err := qskema.Map(root, "spam__eggs", "0", nil)
//	keys, err := qskema.Unmap(root, "spam__eggs", "foo", coerce.Int)
package qskema
