package wrapper

import (
	"go/token"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title upper-cases the first letter of s and lower-cases the rest.
// A Caser is stateful, so one is created per call.
func title(s string) string {
	return cases.Title(language.Und).String(s)
}

// reservedNames are identifiers used by the generated method bodies.
var reservedNames = map[string]bool{
	"ctx": true, "d": true, "bulkHandler": true, "rows": true, "row": true,
	"ret": true, "err": true, "ok": true, "leaf": true, keyFunc: true,
}

// MethodName returns the exported Go name of a routine, e.g. "tst_get_user" → "TstGetUser".
func MethodName(routine string) string {
	var b strings.Builder
	for _, part := range splitWords(routine) {
		b.WriteString(title(part))
	}
	name := b.String()
	if name == "" || !token.IsIdentifier(name) {
		return "Routine" + name
	}
	return name
}

// ParamName returns the Go name of a routine parameter, e.g. "p_usr_id" → "pUsrId".
// Names clashing with Go keywords or identifiers of the generated body get an "Arg" suffix.
func ParamName(param string) string {
	parts := splitWords(param)
	if len(parts) == 0 {
		return "arg"
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	for _, part := range parts[1:] {
		b.WriteString(title(part))
	}
	name := b.String()

	if token.IsKeyword(name) || reservedNames[name] || isLevelName(name) {
		name += "Arg"
	}
	if !token.IsIdentifier(name) {
		name = "arg" + title(name)
	}
	return name
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '.' || r == '$'
	})
}

// isLevelName reports whether name is a variable of the nested index builder
// (l1, l2, ... and k1, k2, ...).
func isLevelName(name string) bool {
	if len(name) < 2 || (name[0] != 'l' && name[0] != 'k') {
		return false
	}
	for _, r := range name[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
