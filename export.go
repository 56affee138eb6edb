package qskema

import (
	"github.com/reoring/qskema/jsonschema"
)

// JSONSchema describes the raw input accepted by p. Group properties are
// keyed by raw input key and carry the child name as title. Mapping
// patterns become string enums of their table keys.
func JSONSchema(p Pattern) (*jsonschema.Schema, error) {
	if p == nil {
		return nil, patternError(CodeInvalidSpec, rootPath, nil, nil)
	}
	s := exportPattern(p)
	s.SchemaURI = jsonschema.Draft
	return s, nil
}

func exportPattern(p Pattern) *jsonschema.Schema {
	s := &jsonschema.Schema{Title: p.Name(), Default: p.Default()}
	switch t := p.(type) {
	case *StringPattern:
		s.Type = "string"
	case *NumericPattern:
		s.Type = "number"
	case *BooleanPattern:
		s.Type = "boolean"
	case *MappingPattern:
		s.Type = "string"
		s.Enum = make([]any, 0, len(t.table))
		for _, e := range t.table {
			s.Enum = append(s.Enum, e.Key)
		}
	case *ListPattern:
		s.Type = "array"
		s.Items = exportPattern(t.item)
	case *GroupPattern:
		s.Type = "object"
		s.AdditionalProperties = false
		s.Properties = make(map[string]*jsonschema.Schema, len(t.fields))
		for _, f := range t.fields {
			s.Properties[f.Key] = exportPattern(f.Pattern)
			s.PropertyOrder = append(s.PropertyOrder, f.Key)
			if f.Pattern.Required() {
				s.Required = append(s.Required, f.Key)
			}
		}
	}
	return s
}
