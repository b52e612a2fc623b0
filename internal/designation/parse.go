package designation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

var (
	// bulkInsertRegex matches "<table> <column>[,<column>...]". The table may be schema qualified.
	bulkInsertRegex = regexp.MustCompile(`^([A-Za-z0-9_.]+)\s+([A-Za-z0-9_]+(?:\s*,\s*[A-Za-z0-9_]+)*)$`)

	// columnsRegex matches "<column>[,<column>...]".
	columnsRegex = regexp.MustCompile(`^[A-Za-z0-9_]+(?:\s*,\s*[A-Za-z0-9_]+)*$`)
)

// Parse builds the designation for keyword and its argument text.
// The keyword is matched case-insensitively. Failures are returned as
// *sprocgen.CompileError without a path.
func Parse(keyword, argument string) (Spec, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	argument = strings.TrimSpace(argument)

	switch keyword {
	case KeywordBulkInsert:
		m := bulkInsertRegex.FindStringSubmatch(argument)
		if m == nil {
			return nil, &sprocgen.CompileError{
				Kind:  sprocgen.ErrMalformedBulkInsert,
				Token: strings.TrimSpace(keyword + " " + argument),
				Hint:  "Expected: bulk_insert <table_name> <column>[,<column>...]",
			}
		}
		return BulkInsert{Table: m[1], Columns: splitColumns(m[2])}, nil

	case KeywordRowsWithKey, KeywordRowsWithIndex:
		if !columnsRegex.MatchString(argument) {
			return nil, &sprocgen.CompileError{
				Kind:  sprocgen.ErrMalformedColumns,
				Token: strings.TrimSpace(keyword + " " + argument),
				Hint:  fmt.Sprintf("Expected: %s <column>[,<column>...]", keyword),
			}
		}
		if keyword == KeywordRowsWithKey {
			return RowsWithKey{Columns: splitColumns(argument)}, nil
		}
		return RowsWithIndex{Columns: splitColumns(argument)}, nil
	}

	des, ok := simple(keyword)
	if !ok {
		return nil, &sprocgen.CompileError{
			Kind:  sprocgen.ErrUnknownDesignation,
			Token: keyword,
			Hint:  "Valid designation types: " + strings.Join(Keywords(), ", "),
		}
	}
	if argument != "" {
		return nil, &sprocgen.CompileError{
			Kind:  sprocgen.ErrUnexpectedArgument,
			Token: keyword + " " + argument,
			Hint:  "Expected: " + keyword,
		}
	}
	return des, nil
}

// simple returns the designation for a keyword that takes no argument.
func simple(keyword string) (Spec, bool) {
	switch keyword {
	case KeywordNone:
		return None{}, true
	case KeywordLog:
		return Log{}, true
	case KeywordSingleton0:
		return Singleton0{}, true
	case KeywordSingleton1:
		return Singleton1{}, true
	case KeywordRow0:
		return Row0{}, true
	case KeywordRow1:
		return Row1{}, true
	case KeywordRows:
		return Rows{}, true
	case KeywordFunction:
		return Function{}, true
	case KeywordMulti:
		return Multi{}, true
	default:
		return nil, false
	}
}

func splitColumns(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// FromMetadata rebuilds the designation of a persisted routine record.
func FromMetadata(m *sprocgen.RoutineMetadata) (Spec, error) {
	switch m.Designation {
	case KeywordBulkInsert:
		if m.TableName == nil || *m.TableName == "" || len(m.Columns) == 0 {
			return nil, &sprocgen.CompileError{Kind: sprocgen.ErrMalformedBulkInsert, Token: m.RoutineName}
		}
		return BulkInsert{Table: *m.TableName, Columns: m.Columns}, nil
	case KeywordRowsWithKey, KeywordRowsWithIndex:
		return Parse(m.Designation, strings.Join(m.Columns, ","))
	default:
		return Parse(m.Designation, "")
	}
}
