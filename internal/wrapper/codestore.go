package wrapper

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnbalanced is returned when rendering a code store whose blocks are not all closed.
var ErrUnbalanced = errors.New("unbalanced code block")

// CodeStore accumulates generated Go source line by line. It tracks the
// indentation of nested blocks and the imports the code needs.
type CodeStore struct {
	lines   []string
	depth   int
	err     error
	imports map[string]bool
}

// NewCodeStore creates an empty CodeStore.
func NewCodeStore() *CodeStore {
	return &CodeStore{imports: make(map[string]bool)}
}

// Line appends a line at the current indentation. An empty line is appended
// without indentation.
func (s *CodeStore) Line(line string) {
	if line == "" {
		s.lines = append(s.lines, "")
		return
	}
	s.lines = append(s.lines, strings.Repeat("\t", s.depth)+line)
}

// Linef appends a formatted line.
func (s *CodeStore) Linef(format string, args ...any) {
	s.Line(fmt.Sprintf(format, args...))
}

// Open appends a line opening a block and indents the following lines.
func (s *CodeStore) Open(format string, args ...any) {
	s.Linef(format+" {", args...)
	s.depth++
}

// Else closes the current block and opens its else branch.
func (s *CodeStore) Else() {
	s.dedent()
	s.Line("} else {")
	s.depth++
}

// Close closes the current block.
func (s *CodeStore) Close() {
	s.dedent()
	s.Line("}")
}

func (s *CodeStore) dedent() {
	if s.depth == 0 {
		if s.err == nil {
			s.err = fmt.Errorf("%w: block closed at line %d without being opened", ErrUnbalanced, len(s.lines)+1)
		}
		return
	}
	s.depth--
}

// Depth returns the number of open blocks.
func (s *CodeStore) Depth() int {
	return s.depth
}

// AddImport records an import path the code needs.
func (s *CodeStore) AddImport(path string) {
	if path != "" {
		s.imports[path] = true
	}
}

// Imports returns the recorded import paths in sorted order.
func (s *CodeStore) Imports() []string {
	paths := make([]string, 0, len(s.imports))
	for p := range s.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Append appends the lines and imports of other at the current indentation.
func (s *CodeStore) Append(other *CodeStore) {
	for _, line := range other.lines {
		s.Line(line)
	}
	for p := range other.imports {
		s.imports[p] = true
	}
	if s.err == nil {
		s.err = other.err
	}
	if s.err == nil && other.depth != 0 {
		s.err = fmt.Errorf("%w: %d block(s) left open", ErrUnbalanced, other.depth)
	}
}

// Render returns the accumulated code. It fails if any block was closed
// without being opened or is still open.
func (s *CodeStore) Render() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.depth != 0 {
		return "", fmt.Errorf("%w: %d block(s) left open", ErrUnbalanced, s.depth)
	}
	return strings.Join(s.lines, "\n") + "\n", nil
}
