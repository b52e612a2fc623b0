package wrapper

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
)

// Minimal stand-ins of the packages generated code imports, enough for
// the type checker to resolve every identifier the wrappers use.
const (
	contextStub = `package context

type Context interface{ Done() <-chan struct{} }
`
	timeStub = `package time

type Time struct{}
`
	fmtStub = `package fmt

func Sprint(a ...any) string { return "" }
`
	reflectStub = `package reflect

type Type interface{ Comparable() bool }

func TypeOf(i any) Type { return nil }
`
	dalStub = `package dal

import "context"

type BulkHandler interface {
	Start()
	Row(row map[string]any) error
	Stop()
}

type DataLayer struct{}

func (d *DataLayer) ExecuteNone(ctx context.Context, sql string, args ...any) (int64, error) { return 0, nil }
func (d *DataLayer) ExecuteLog(ctx context.Context, sql string, args ...any) (int64, error)  { return 0, nil }
func (d *DataLayer) ExecuteSingleton0(ctx context.Context, sql string, args ...any) (any, error) {
	return nil, nil
}
func (d *DataLayer) ExecuteSingleton1(ctx context.Context, sql string, args ...any) (any, error) {
	return nil, nil
}
func (d *DataLayer) ExecuteFunction(ctx context.Context, sql string, args ...any) (any, error) {
	return nil, nil
}
func (d *DataLayer) ExecuteRow0(ctx context.Context, sql string, args ...any) (map[string]any, error) {
	return nil, nil
}
func (d *DataLayer) ExecuteRow1(ctx context.Context, sql string, args ...any) (map[string]any, error) {
	return nil, nil
}
func (d *DataLayer) ExecuteRows(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	return nil, nil
}
func (d *DataLayer) ExecuteMulti(ctx context.Context, sql string, args ...any) ([][]map[string]any, error) {
	return nil, nil
}
func (d *DataLayer) ExecuteBulk(ctx context.Context, h BulkHandler, sql string, args ...any) (int64, error) {
	return 0, nil
}
`
)

type stubImporter map[string]*types.Package

func (m stubImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := m[path]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("no stub for package %q", path)
}

func checkSource(t *testing.T, fset *token.FileSet, path, src string, imp types.Importer) *types.Package {
	t.Helper()

	file, err := parser.ParseFile(fset, path+".go", src, parser.ParseComments)
	require.NoError(t, err, "source:\n%s", src)

	conf := types.Config{Importer: imp}
	pkg, err := conf.Check(path, fset, []*ast.File{file}, nil)
	require.NoError(t, err, "source:\n%s", src)
	return pkg
}

// typeCheck parses and type-checks generated source against the stubs.
func typeCheck(t *testing.T, src string) {
	t.Helper()

	fset := token.NewFileSet()
	imp := stubImporter{}
	imp["context"] = checkSource(t, fset, "context", contextStub, imp)
	imp["time"] = checkSource(t, fset, "time", timeStub, imp)
	imp["fmt"] = checkSource(t, fset, "fmt", fmtStub, imp)
	imp["reflect"] = checkSource(t, fset, "reflect", reflectStub, imp)
	imp[DefaultRuntimeImport] = checkSource(t, fset, "dal", dalStub, imp)

	checkSource(t, fset, "generated", src, imp)
}
