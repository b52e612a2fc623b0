package pgsql

import (
	"regexp"
	"strings"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

var (
	routineStartRegex = regexp.MustCompile(`(?i)^\s*create\s+(or\s+replace\s+)?(function|procedure)(\s|$)`)
	bodyStartRegex    = regexp.MustCompile(`(?i)(^\s*(as\s+)?|\sas\s+)\$[A-Za-z0-9_]*\$|^\s*begin(\s|$)`)
	signatureRegex    = regexp.MustCompile(`(?is)^\s*create\s+(?:or\s+replace\s+)?(function|procedure)\s+((?:"?[A-Za-z0-9_]+"?\.)?"?[A-Za-z0-9_]+"?)\s*\(`)
)

// Dialect recognizes PostgreSQL routine sources.
type Dialect struct{}

// NewDialect creates a Dialect.
func NewDialect() *Dialect {
	return &Dialect{}
}

// IsRoutineStart reports whether line starts a create function or create procedure statement.
func (Dialect) IsRoutineStart(line string) bool {
	return routineStartRegex.MatchString(line)
}

// IsBodyStart reports whether line opens a dollar-quoted body or a begin block.
func (Dialect) IsBodyStart(line string) bool {
	return bodyStartRegex.MatchString(line)
}

// RoutineSignature returns the name and kind of the first routine the lines
// create. A schema qualifier and identifier quotes are stripped from the name.
func (d Dialect) RoutineSignature(lines []string) (string, string, bool) {
	for i, line := range lines {
		if !d.IsRoutineStart(line) {
			continue
		}
		m := signatureRegex.FindStringSubmatch(strings.Join(lines[i:], "\n"))
		if m == nil {
			return "", "", false
		}

		name := m[2]
		if dot := strings.LastIndex(name, "."); dot >= 0 {
			name = name[dot+1:]
		}
		name = strings.Trim(name, `"`)

		kind := sprocgen.RoutineKindFunction
		if strings.EqualFold(m[1], "procedure") {
			kind = sprocgen.RoutineKindProcedure
		}
		return name, kind, true
	}
	return "", "", false
}

var _ sprocgen.Dialect = Dialect{}
