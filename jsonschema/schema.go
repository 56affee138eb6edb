// Package jsonschema holds the JSON Schema subset used to export compiled
// qskema patterns.
package jsonschema

// Draft is the dialect announced by exported documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	SchemaURI string `json:"$schema,omitempty"`
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	Default   any    `json:"default,omitempty"`
	Enum      []any  `json:"enum,omitempty"`

	// Object. PropertyOrder keeps the declaration order of Properties.
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyOrder        []string           `json:"-"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}
