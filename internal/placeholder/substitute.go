// Package placeholder expands @token@ placeholders in routine sources.
//
// Three forms are recognized: @token@, @token%type@ and @token%max-type@, where
// token consists of letters, digits, underscores and dots. Every placeholder
// must be present in the caller's Table; an unknown placeholder is fatal.
//
// In addition, four magic entries are bound per routine and replaced wherever
// they appear: __FILE__, __ROUTINE__, __DIR__ and __LINE__. Their values are
// quoted SQL string literals.
package placeholder

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// placeholderRegex matches a placeholder occurrence.
var placeholderRegex = regexp.MustCompile(`@[A-Za-z0-9_.]+(?:%(?:max-)?type)?@`)

// Input is the routine source to substitute.
type Input struct {
	Path    string   // Absolute path of the source file
	Routine string   // Routine name
	Lines   []string // Source lines without line terminators
}

// Result is a substituted routine source.
type Result struct {
	Lines []string

	// Replace holds the placeholders that occur in the source, keyed by their
	// spelling as first seen, with the values they were replaced by.
	// Magic entries are excluded.
	Replace map[string]string
}

// Text returns the substituted source.
func (r *Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Collect returns the distinct placeholders of lines in order of first occurrence.
// Placeholders differing only in case are distinct.
func Collect(lines []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range lines {
		for _, match := range placeholderRegex.FindAllString(line, -1) {
			if !seen[match] {
				seen[match] = true
				out = append(out, match)
			}
		}
	}
	return out
}

// entry is one key/value pair of a routine's working substitution set.
type entry struct {
	key     string
	value   string
	pattern *regexp.Regexp
}

func newEntry(key, value string) entry {
	return entry{key: key, value: value, pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key))}
}

// lineState is the state threaded through the line loop: the 1-based number
// of the next line and the lines substituted so far.
type lineState struct {
	number int
	out    []string
}

// step substitutes one line. The __LINE__ entry is rebound to the line number
// before any entry is applied.
func (s lineState) step(line string, entries []entry) lineState {
	for _, e := range entries {
		value := e.value
		if e.key == sprocgen.MagicLine {
			value = fmt.Sprintf("'%d'", s.number)
		}

		// The first case-insensitive match is replaced everywhere it occurs
		// literally on the line.
		if matched := e.pattern.FindString(line); matched != "" {
			line = strings.ReplaceAll(line, matched, value)
		}
	}

	return lineState{number: s.number + 1, out: append(s.out, line)}
}

// Substitute replaces all placeholders and magic entries in the source.
// The table is not modified. An unknown placeholder yields a
// *sprocgen.CompileError wrapping sprocgen.ErrUnknownPlaceholder.
func Substitute(in Input, table Table) (*Result, error) {
	replace := make(map[string]string)
	var entries []entry

	for _, token := range Collect(in.Lines) {
		value, ok := table.Lookup(token)
		if !ok {
			return nil, &sprocgen.CompileError{
				Kind:  sprocgen.ErrUnknownPlaceholder,
				Path:  in.Path,
				Token: token,
				Hint:  "Define the placeholder under 'placeholders' in sprocgen.yaml, in a placeholder file, or with --placeholder",
			}
		}
		replace[token] = value
		entries = append(entries, newEntry(token, value))
	}
	// Magic entries come last so they also expand inside placeholder values.
	entries = append(entries, magicEntries(in)...)

	state := lineState{number: 1, out: make([]string, 0, len(in.Lines))}
	for _, line := range in.Lines {
		state = state.step(line, entries)
	}

	return &Result{Lines: state.out, Replace: replace}, nil
}

func magicEntries(in Input) []entry {
	return []entry{
		newEntry(sprocgen.MagicFile, quote(in.Path)),
		newEntry(sprocgen.MagicRoutine, quote(in.Routine)),
		newEntry(sprocgen.MagicDir, quote(filepath.Dir(in.Path))),
		newEntry(sprocgen.MagicLine, ""),
	}
}

func quote(s string) string {
	return "'" + s + "'"
}
