package designation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/vvka-141/sprocgen/internal/docblock"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// legacyRegex matches a "-- type: <keyword> [<argument>]" pragma line.
var legacyRegex = regexp.MustCompile(`(?i)^\s*--\s+type\s*:\s*(\w+)\s*(.*?)\s*$`)

// Syntax recognizes the lines delimiting a routine header.
type Syntax interface {
	IsRoutineStart(line string) bool
	IsBodyStart(line string) bool
}

// Resolve determines the designation of the routine in lines. The legacy
// pragma is tried first; the @type tag of block is consulted only if the
// pragma is absent. Every failure is a *sprocgen.CompileError naming path.
func Resolve(path string, lines []string, syntax Syntax, block docblock.DocBlock) (Spec, error) {
	des, found, err := FromPragma(lines, syntax)
	if !found {
		des, found, err = FromDocBlock(block)
	}
	if err != nil {
		return nil, withPath(err, path)
	}
	if !found {
		return nil, &sprocgen.CompileError{
			Kind: sprocgen.ErrNoDesignation,
			Path: path,
			Hint: "Add '@type <designation>' to the DocBlock or '-- type: <designation>' below the routine header",
		}
	}
	return des, nil
}

// FromPragma finds the first legacy pragma strictly between the routine start
// line and the body start line.
func FromPragma(lines []string, syntax Syntax) (Spec, bool, error) {
	first, last, ok := header(lines, syntax)
	if !ok {
		return nil, false, nil
	}

	for _, line := range lines[first+1 : last] {
		m := legacyRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		des, err := Parse(m[1], m[2])
		return des, true, err
	}
	return nil, false, nil
}

// header returns the index of the routine start line and of the body start
// line following it.
func header(lines []string, syntax Syntax) (start, body int, ok bool) {
	start = -1
	for i, line := range lines {
		if start == -1 {
			if syntax.IsRoutineStart(line) {
				start = i
			}
			continue
		}
		if syntax.IsBodyStart(line) {
			return start, i, true
		}
	}
	return -1, -1, false
}

// FromDocBlock parses the @type tag of block. The block must carry exactly
// one @type tag; several tags are reported as a missing designation.
func FromDocBlock(block docblock.DocBlock) (Spec, bool, error) {
	tags := block.Types()
	switch {
	case len(tags) == 0:
		return nil, false, nil
	case len(tags) > 1:
		return nil, false, &sprocgen.CompileError{
			Kind: sprocgen.ErrNoDesignation,
			Err:  fmt.Errorf("found %d @type tags", len(tags)),
			Hint: "Keep exactly one @type tag in the DocBlock",
		}
	}

	des, err := Parse(tags[0].Keyword, tags[0].Argument)
	return des, true, err
}

func withPath(err error, path string) error {
	var compileErr *sprocgen.CompileError
	if errors.As(err, &compileErr) {
		compileErr.Path = path
		return compileErr
	}
	return &sprocgen.CompileError{Kind: sprocgen.ErrNoDesignation, Path: path, Err: err}
}
