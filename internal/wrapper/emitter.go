package wrapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vvka-141/sprocgen/internal/designation"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Emitter emits the wrapper method of one routine.
type Emitter struct {
	receiver      string // Generated data layer type, e.g. "DataLayer"
	runtimeImport string // Import path of the dal runtime
}

// NewEmitter creates an Emitter for methods on *receiver.
func NewEmitter(receiver, runtimeImport string) *Emitter {
	return &Emitter{receiver: receiver, runtimeImport: runtimeImport}
}

// Emit renders the wrapper method of meta into a new CodeStore.
func (e *Emitter) Emit(meta *sprocgen.RoutineMetadata) (*CodeStore, error) {
	des, err := designation.FromMetadata(meta)
	if err != nil {
		return nil, err
	}
	sh := shapeFor(des)
	if sh == nil {
		return nil, fmt.Errorf("no wrapper shape for designation %s", des.Keyword())
	}

	s := NewCodeStore()
	s.AddImport("context")
	s.AddImport(e.runtimeImport)

	name := MethodName(meta.RoutineName)
	e.docComment(s, name, meta, des, sh)

	params := []string{"ctx context.Context"}
	if sh.bulkHandler() {
		params = append(params, "bulkHandler dal.BulkHandler")
	}
	args := []string{strconv.Quote(Statement(meta))}
	seen := make(map[string]string, len(meta.Parameters))
	for _, p := range meta.Parameters {
		goName := ParamName(p.Name)
		if other, dup := seen[goName]; dup {
			return nil, fmt.Errorf("%w: parameters %s and %s of routine %s both map to %s",
				sprocgen.ErrWrapperFailed, other, p.Name, meta.RoutineName, goName)
		}
		seen[goName] = p.Name

		hint := p.TypeHint
		if hint == "" {
			hint = "any"
		}
		params = append(params, goName+" "+hint)
		args = append(args, goName)
		s.AddImport(p.TypeImport)
	}

	s.Open("func (d *%s) %s(%s) (%s, error)", e.receiver, name, strings.Join(params, ", "), sh.returnType())
	if err := sh.body(s, strings.Join(args, ", ")); err != nil {
		return nil, err
	}
	s.Close()

	return s, nil
}

func (e *Emitter) docComment(s *CodeStore, name string, meta *sprocgen.RoutineMetadata, des designation.Spec, sh shape) {
	s.Linef("// %s wraps stored %s %s (%s).", name, kindOf(meta), meta.RoutineName, des.Keyword())

	if meta.Doc.Description != "" {
		s.Line("//")
		for _, line := range strings.Split(meta.Doc.Description, "\n") {
			comment(s, line)
		}
	}

	var params []string
	if sh.bulkHandler() {
		params = append(params, "bulkHandler dal.BulkHandler: The bulk handler for processing the selected rows.")
	}
	for _, p := range meta.Doc.Parameters {
		entry := ParamName(p.Name) + " " + p.TypeName
		if p.Descriptor != "" {
			entry += " (" + p.Descriptor + ")"
		}
		if p.Description != "" {
			entry += ": " + strings.ReplaceAll(p.Description, "\n", " ")
		}
		params = append(params, entry)
	}
	if len(params) > 0 {
		s.Line("//")
		s.Line("// Parameters:")
		for _, p := range params {
			comment(s, "  - "+p)
		}
	}

	if bulk, ok := des.(designation.BulkInsert); ok {
		s.Line("//")
		comment(s, "Rows are shaped like table "+bulk.Table+bulkColumns(bulk.Columns, meta.Fields, meta.ColumnTypes)+".")
	}

	if meta.Doc.Return != "" {
		s.Line("//")
		comment(s, "Returns: "+meta.Doc.Return)
	}
}

// bulkColumns lists the keys of a bulk table with their columns, e.g.
// " (id: ord_id integer, name: ord_name text)".
func bulkColumns(keys, fields, types []string) string {
	if len(fields) != len(keys) || len(types) != len(keys) {
		return ""
	}
	parts := make([]string, len(keys))
	for i := range keys {
		parts[i] = keys[i] + ": " + fields[i] + " " + types[i]
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func comment(s *CodeStore, line string) {
	line = strings.TrimRight(line, " \t")
	if line == "" {
		s.Line("//")
		return
	}
	s.Line("// " + line)
}

func kindOf(meta *sprocgen.RoutineMetadata) string {
	if meta.RoutineKind == "" {
		return sprocgen.RoutineKindFunction
	}
	return meta.RoutineKind
}

// Statement returns the SQL statement invoking the routine with positional
// arguments: "select name($1)" for stored functions wrapped as function,
// "call name($1)" for procedures and "select * from name($1)" otherwise.
func Statement(meta *sprocgen.RoutineMetadata) string {
	placeholders := make([]string, len(meta.Parameters))
	for i := range meta.Parameters {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	call := meta.RoutineName + "(" + strings.Join(placeholders, ", ") + ")"

	switch {
	case meta.Designation == designation.KeywordFunction:
		return "select " + call
	case meta.RoutineKind == sprocgen.RoutineKindProcedure:
		return "call " + call
	default:
		return "select * from " + call
	}
}
