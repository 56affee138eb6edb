package qskema

import (
	"strconv"
	"strings"
)

// PathSeparator separates child names in a symbolic path ("a__b__c").
const PathSeparator = "__"

// SplitPath splits a symbolic path into child names.
func SplitPath(path string) []string { return strings.Split(path, PathSeparator) }

// JoinPath is the inverse of SplitPath.
func JoinPath(names ...string) string { return strings.Join(names, PathSeparator) }

// pathRef builds JSON Pointer locations for errors. It is a value type so
// that each recursion level extends its own copy.
type pathRef struct {
	parts []string
}

var rootPath = pathRef{}

func (p pathRef) Field(name string) pathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p pathRef) Index(i int) pathRef {
	return pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
