package wrapper

import (
	"github.com/vvka-141/sprocgen/internal/designation"
)

// shape renders the designation-specific part of a wrapper method.
type shape interface {
	// returnType is the Go type returned next to the error.
	returnType() string

	// bulkHandler reports whether the method takes a dal.BulkHandler.
	bulkHandler() bool

	// body emits the method body. args is the argument list of the
	// Execute call after the context.
	body(s *CodeStore, args string) error
}

// executeShape returns the result of one dal Execute method as is.
type executeShape struct {
	method  string
	ret     string
	handler bool
}

func (e executeShape) returnType() string { return e.ret }
func (e executeShape) bulkHandler() bool  { return e.handler }

func (e executeShape) body(s *CodeStore, args string) error {
	if e.handler {
		args = "bulkHandler, " + args
	}
	s.Linef("return d.DataLayer.%s(ctx, %s)", e.method, args)
	return nil
}

// nestedShape selects rows and groups them with a NestedIndexBuilder.
type nestedShape struct {
	builder NestedIndexBuilder
}

func (n nestedShape) returnType() string { return n.builder.Type() }
func (n nestedShape) bulkHandler() bool  { return false }

func (n nestedShape) body(s *CodeStore, args string) error {
	s.Linef("rows, err := d.DataLayer.ExecuteRows(ctx, %s)", args)
	s.Open("if err != nil")
	s.Line("return nil, err")
	s.Close()
	s.Line("")
	if err := n.builder.Build(s); err != nil {
		return err
	}
	s.Line("")
	s.Line("return ret, nil")
	return nil
}

// shapeFor returns the shape of a designation.
func shapeFor(des designation.Spec) shape {
	switch s := des.(type) {
	case designation.None:
		return executeShape{method: "ExecuteNone", ret: "int64"}
	case designation.Log:
		return executeShape{method: "ExecuteLog", ret: "int64"}
	case designation.Singleton0:
		return executeShape{method: "ExecuteSingleton0", ret: "any"}
	case designation.Singleton1:
		return executeShape{method: "ExecuteSingleton1", ret: "any"}
	case designation.Row0:
		return executeShape{method: "ExecuteRow0", ret: "map[string]any"}
	case designation.Row1:
		return executeShape{method: "ExecuteRow1", ret: "map[string]any"}
	case designation.Rows:
		return executeShape{method: "ExecuteRows", ret: "[]map[string]any"}
	case designation.Multi:
		return executeShape{method: "ExecuteMulti", ret: "[][]map[string]any"}
	case designation.Function:
		return executeShape{method: "ExecuteFunction", ret: "any"}
	case designation.BulkInsert:
		return executeShape{method: "ExecuteBulk", ret: "int64", handler: true}
	case designation.RowsWithKey:
		return nestedShape{builder: NewKeyBuilder(s.Columns)}
	case designation.RowsWithIndex:
		return nestedShape{builder: NewIndexBuilder(s.Columns)}
	default:
		return nil
	}
}
