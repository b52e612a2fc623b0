package routine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

type recordingLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
	sql      []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) SQLWithError(sql string, errorLine int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sql = append(l.sql, fmt.Sprintf("%d:%s", errorLine, sql))
}

var (
	mockStart     = regexp.MustCompile(`(?i)^\s*create\s+(or\s+replace\s+)?(function|procedure)\s`)
	mockBody      = regexp.MustCompile(`(?i)^\s*(as\s+)?\$[A-Za-z_]*\$`)
	mockSignature = regexp.MustCompile(`(?i)create\s+(?:or\s+replace\s+)?(function|procedure)\s+(?:\w+\.)?(\w+)\s*\(`)
)

type mockDialect struct{}

func (mockDialect) IsRoutineStart(line string) bool { return mockStart.MatchString(line) }
func (mockDialect) IsBodyStart(line string) bool    { return mockBody.MatchString(line) }

func (mockDialect) RoutineSignature(lines []string) (string, string, bool) {
	m := mockSignature.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return "", "", false
	}
	return m[2], strings.ToLower(m[1]), true
}

type mockBackend struct {
	params  map[string][]sprocgen.RoutineParameter
	columns map[string][]sprocgen.TableColumn
	exists  map[string]bool
	loadErr error

	loaded []sprocgen.LoadRequest
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		params:  map[string][]sprocgen.RoutineParameter{},
		columns: map[string][]sprocgen.TableColumn{},
		exists:  map[string]bool{},
	}
}

func (b *mockBackend) LoadRoutine(ctx context.Context, req sprocgen.LoadRequest) error {
	if b.loadErr != nil {
		return b.loadErr
	}
	b.loaded = append(b.loaded, req)
	b.exists[req.Name] = true
	return nil
}

func (b *mockBackend) RoutineParameters(ctx context.Context, name string) ([]sprocgen.RoutineParameter, error) {
	return b.params[name], nil
}

func (b *mockBackend) TableColumns(ctx context.Context, table string) ([]sprocgen.TableColumn, error) {
	cols, ok := b.columns[table]
	if !ok {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	return cols, nil
}

func (b *mockBackend) RoutineExists(ctx context.Context, name string) (bool, error) {
	return b.exists[name], nil
}

type mockMapper struct{}

func (mockMapper) MapType(p sprocgen.RoutineParameter) sprocgen.TypeMapping {
	switch p.DataType {
	case "integer":
		return sprocgen.TypeMapping{Name: "int32", Hint: "*int32"}
	case "timestamp without time zone":
		return sprocgen.TypeMapping{Name: "time.Time", Hint: "*time.Time", Import: "time"}
	default:
		return sprocgen.TypeMapping{Name: "string", Hint: "*string"}
	}
}
