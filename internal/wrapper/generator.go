package wrapper

import (
	"errors"
	"fmt"
	"go/format"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/vvka-141/sprocgen/internal/designation"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// DefaultRuntimeImport is the import path of the runtime generated code depends on.
const DefaultRuntimeImport = "github.com/vvka-141/sprocgen/pkg/dal"

// Config configures the generated file.
type Config struct {
	Package       string // Package clause of the generated file
	TypeName      string // Name of the generated data layer type
	RuntimeImport string // Import path of the dal runtime
}

// Generator renders the data layer of a set of routines.
type Generator struct {
	cfg Config
}

// NewGenerator creates a Generator. Empty fields of cfg are defaulted.
func NewGenerator(cfg Config) *Generator {
	if cfg.Package == "" {
		cfg.Package = sprocgen.DefaultWrapperPackage
	}
	if cfg.TypeName == "" {
		cfg.TypeName = sprocgen.DefaultWrapperType
	}
	if cfg.RuntimeImport == "" {
		cfg.RuntimeImport = DefaultRuntimeImport
	}
	return &Generator{cfg: cfg}
}

// Generate renders the gofmt-ed source of the data layer. Routines are
// emitted in order of name. Failures wrap sprocgen.ErrWrapperFailed.
func (g *Generator) Generate(routines []*sprocgen.RoutineMetadata) ([]byte, error) {
	sorted := make([]*sprocgen.RoutineMetadata, len(routines))
	copy(sorted, routines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RoutineName < sorted[j].RoutineName
	})

	emitter := NewEmitter(g.cfg.TypeName, g.cfg.RuntimeImport)
	methods := NewCodeStore()
	methods.AddImport(g.cfg.RuntimeImport)

	seen := map[string]string{"New" + g.cfg.TypeName: "", "DataLayer": ""}
	nested := false
	for _, meta := range sorted {
		name := MethodName(meta.RoutineName)
		if other, dup := seen[name]; dup {
			if other == "" {
				return nil, fmt.Errorf("%w: method name %s of routine %s is reserved", sprocgen.ErrWrapperFailed, name, meta.RoutineName)
			}
			return nil, fmt.Errorf("%w: routines %s and %s both map to method %s", sprocgen.ErrWrapperFailed, other, meta.RoutineName, name)
		}
		seen[name] = meta.RoutineName

		method, err := emitter.Emit(meta)
		if errors.Is(err, sprocgen.ErrWrapperFailed) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("%w: routine %s: %v", sprocgen.ErrWrapperFailed, meta.RoutineName, err)
		}
		methods.Line("")
		methods.Append(method)
		nested = nested || isNested(meta)
	}
	if nested {
		methods.Line("")
		EmitKeyFunc(methods)
	}

	body, err := methods.Render()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sprocgen.ErrWrapperFailed, err)
	}

	var b strings.Builder
	b.WriteString("// Code generated by sprocgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", g.cfg.Package)
	writeImports(&b, methods.Imports(), g.cfg.RuntimeImport)
	fmt.Fprintf(&b, "\n// %s executes the stored routines of the project.\n", g.cfg.TypeName)
	fmt.Fprintf(&b, "type %s struct {\n\t*dal.DataLayer\n}\n\n", g.cfg.TypeName)
	fmt.Fprintf(&b, "// New%[1]s creates a %[1]s executing routines through db.\n", g.cfg.TypeName)
	fmt.Fprintf(&b, "func New%[1]s(db *dal.DataLayer) *%[1]s {\n\treturn &%[1]s{DataLayer: db}\n}\n", g.cfg.TypeName)
	b.WriteString(body)

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: generated code does not parse: %v", sprocgen.ErrWrapperFailed, err)
	}
	return src, nil
}

// writeImports writes an import block with standard library packages first.
// The runtime is imported as dal whatever its path.
func writeImports(b *strings.Builder, paths []string, runtime string) {
	var std, other []string
	for _, p := range paths {
		if strings.Contains(strings.SplitN(p, "/", 2)[0], ".") {
			other = append(other, p)
		} else {
			std = append(std, p)
		}
	}

	b.WriteString("import (\n")
	for _, p := range std {
		fmt.Fprintf(b, "\t%s\n", strconv.Quote(p))
	}
	if len(std) > 0 && len(other) > 0 {
		b.WriteString("\n")
	}
	for _, p := range other {
		if p == runtime && path.Base(p) != "dal" {
			fmt.Fprintf(b, "\tdal %s\n", strconv.Quote(p))
			continue
		}
		fmt.Fprintf(b, "\t%s\n", strconv.Quote(p))
	}
	b.WriteString(")\n")
}

// isNested reports whether the wrapper of meta groups rows with a NestedIndexBuilder.
func isNested(meta *sprocgen.RoutineMetadata) bool {
	des, err := designation.FromMetadata(meta)
	if err != nil {
		return false
	}
	_, ok := shapeFor(des).(nestedShape)
	return ok
}
