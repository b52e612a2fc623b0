package docblock

import (
	"regexp"
	"strings"
)

var (
	// openRegex matches the line opening a DocBlock.
	openRegex = regexp.MustCompile(`^\s*/\*\*`)

	// closeRegex matches the close marker at the end of a line.
	closeRegex = regexp.MustCompile(`\*/\s*$`)

	// leadingStarRegex matches the decorative star at the start of an inner line.
	leadingStarRegex = regexp.MustCompile(`^\s*\*`)

	// tagRegex matches the name of a tag at the start of a cleaned line.
	tagRegex = regexp.MustCompile(`^@(\w+)`)
)

// Tag is a raw tag line of a DocBlock, e.g. {Name: "param", Text: "@param p1 The ID."}.
// Text includes the @name prefix and any continuation lines joined with "\n".
type Tag struct {
	Name string
	Text string
}

// DocBlock is a parsed DocBlock.
type DocBlock struct {
	Description string
	Tags        []Tag
}

// Locate returns the index of the first line opening a DocBlock and the index
// of the first line closing it, scanning from the top of the source until the
// routine starts. ok is false when no complete DocBlock precedes the routine.
func Locate(lines []string, isRoutineStart func(string) bool) (first, last int, ok bool) {
	first = -1
	for i, line := range lines {
		if first == -1 && openRegex.MatchString(line) {
			first = i
		}
		if first != -1 && closeRegex.MatchString(line) {
			// A close marker on the opening line must follow the opener itself.
			if i != first || strings.Index(line, "*/") > strings.Index(line, "/**") {
				return first, i, true
			}
		}
		if isRoutineStart != nil && isRoutineStart(line) {
			break
		}
	}
	return -1, -1, false
}

// FromSource locates and parses the DocBlock of a routine source.
// It returns an empty DocBlock if the source has none.
func FromSource(lines []string, isRoutineStart func(string) bool) DocBlock {
	first, last, ok := Locate(lines, isRoutineStart)
	if !ok {
		return DocBlock{}
	}
	return Parse(lines[first : last+1])
}

// Parse parses the lines of a DocBlock, markers included.
func Parse(lines []string) DocBlock {
	cleaned := clean(lines)

	var block DocBlock
	block.Description = strings.Join(description(cleaned), "\n")
	block.Tags = tags(cleaned)

	return block
}

// clean strips comment markers and surrounding whitespace and removes leading
// and trailing empty lines.
func clean(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}

	out := make([]string, len(lines))
	copy(out, lines)

	for i := 1; i < len(out)-1; i++ {
		out[i] = leadingStarRegex.ReplaceAllString(out[i], "")
	}
	out[0] = openRegex.ReplaceAllString(out[0], "")
	out[len(out)-1] = closeRegex.ReplaceAllString(out[len(out)-1], "")
	if len(out) > 1 {
		// The last line may still carry its decorative star, e.g. " * text */".
		out[len(out)-1] = leadingStarRegex.ReplaceAllString(out[len(out)-1], "")
	}

	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}

	return trimEmpty(out)
}

// description returns the lines before the first tag.
func description(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(line, "@") {
			break
		}
		out = append(out, line)
	}
	return trimEmpty(out)
}

// tags collects tag lines and their continuation lines.
func tags(lines []string) []Tag {
	var out []Tag
	current := -1

	for _, line := range lines {
		if strings.HasPrefix(line, "@") {
			m := tagRegex.FindStringSubmatch(line)
			if m == nil {
				// @ without a name: dropped, and nothing continues it
				current = -1
				continue
			}
			out = append(out, Tag{Name: m[1], Text: line})
			current = len(out) - 1
			continue
		}

		if current == -1 {
			continue
		}
		if line == "" {
			current = -1
			continue
		}
		out[current].Text += "\n" + line
	}

	return out
}

func trimEmpty(lines []string) []string {
	start := 0
	for start < len(lines) && lines[start] == "" {
		start++
	}
	end := len(lines)
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}

// TagTexts returns the raw text of all tags with the given name in order of
// appearance. Tag names are compared case-insensitively.
func (d DocBlock) TagTexts(name string) []string {
	var out []string
	for _, tag := range d.Tags {
		if strings.EqualFold(tag.Name, name) {
			out = append(out, tag.Text)
		}
	}
	return out
}
