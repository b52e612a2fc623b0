package docblock

import (
	"regexp"
	"strings"
)

var (
	paramTagRegex  = regexp.MustCompile(`(?is)^@param\s+(\w+)\s*(.+)?`)
	typeTagRegex   = regexp.MustCompile(`(?is)^@type\s*(\w+)\s*(.+)?`)
	returnTagRegex = regexp.MustCompile(`(?is)^@return\s+(.+)`)
)

// ParamTag documents a routine parameter.
type ParamTag struct {
	Name        string
	Description string
}

// TypeTag is a designation declared with @type.
type TypeTag struct {
	Keyword  string // As written; callers compare case-insensitively
	Argument string // Trailing argument text, trimmed; empty if absent
}

// ReturnTag documents the value returned by a routine.
type ReturnTag struct {
	Type string
}

// Params decodes all @param tags. Tags without a parameter name are skipped.
func (d DocBlock) Params() []ParamTag {
	var out []ParamTag
	for _, text := range d.TagTexts("param") {
		m := paramTagRegex.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out = append(out, ParamTag{Name: m[1], Description: strings.TrimSpace(m[2])})
	}
	return out
}

// Types decodes all @type tags.
func (d DocBlock) Types() []TypeTag {
	var out []TypeTag
	for _, text := range d.TagTexts("type") {
		m := typeTagRegex.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out = append(out, TypeTag{Keyword: m[1], Argument: strings.TrimSpace(m[2])})
	}
	return out
}

// Return decodes the first @return tag.
func (d DocBlock) Return() (ReturnTag, bool) {
	for _, text := range d.TagTexts("return") {
		if m := returnTagRegex.FindStringSubmatch(text); m != nil {
			return ReturnTag{Type: strings.TrimSpace(m[1])}, true
		}
	}
	return ReturnTag{}, false
}

// ParamDescription returns the documentation of the named parameter, or the
// empty string if it is undocumented.
func (d DocBlock) ParamDescription(name string) string {
	for _, p := range d.Params() {
		if p.Name == name {
			return p.Description
		}
	}
	return ""
}
