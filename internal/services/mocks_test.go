package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

type recordingLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
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

func (l *recordingLogger) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(append(append(append([]string{}, l.infos...), l.warnings...), l.errors...), "\n")
}

// fakeBackend is an in-memory RoutineBackend. Routines are keyed by name.
type fakeBackend struct {
	pairs   map[string]string
	params  map[string][]sprocgen.RoutineParameter
	columns map[string][]sprocgen.TableColumn

	loaded   map[string]string // name -> substituted source
	loads    []string
	dropped  []string
	released int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pairs:   map[string]string{},
		params:  map[string][]sprocgen.RoutineParameter{},
		columns: map[string][]sprocgen.TableColumn{},
		loaded:  map[string]string{},
	}
}

func (b *fakeBackend) factory() BackendFactory {
	return func(context.Context) (RoutineBackend, func(), error) {
		return b, func() { b.released++ }, nil
	}
}

func (b *fakeBackend) LoadRoutine(ctx context.Context, req sprocgen.LoadRequest) error {
	b.loaded[req.Name] = req.Source
	b.loads = append(b.loads, req.Name)
	return nil
}

func (b *fakeBackend) RoutineParameters(ctx context.Context, name string) ([]sprocgen.RoutineParameter, error) {
	return b.params[name], nil
}

func (b *fakeBackend) TableColumns(ctx context.Context, table string) ([]sprocgen.TableColumn, error) {
	return b.columns[table], nil
}

func (b *fakeBackend) RoutineExists(ctx context.Context, name string) (bool, error) {
	_, ok := b.loaded[name]
	return ok, nil
}

func (b *fakeBackend) ReplacePairs(ctx context.Context) (map[string]string, error) {
	return b.pairs, nil
}

func (b *fakeBackend) DropRoutine(ctx context.Context, name string) error {
	delete(b.loaded, name)
	b.dropped = append(b.dropped, name)
	return nil
}
