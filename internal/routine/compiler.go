package routine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/sprocgen/internal/designation"
	"github.com/vvka-141/sprocgen/internal/docblock"
	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/internal/logging"
	"github.com/vvka-141/sprocgen/internal/placeholder"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Prepared is a routine after the pure compilation phase.
type Prepared struct {
	Source  *Source
	Name    string // Routine name (file stem)
	Kind    string // sprocgen.RoutineKindFunction or sprocgen.RoutineKindProcedure
	Block   docblock.DocBlock
	Spec    designation.Spec
	Lines   []string          // Source lines with placeholders substituted
	Replace map[string]string // Placeholders used by the source and their values
}

// Text returns the substituted source.
func (p *Prepared) Text() string {
	return strings.Join(p.Lines, "\n")
}

// Compiler compiles routine sources into metadata records.
// Prepare is safe for concurrent use; Finish, Compile and CompileE use the
// backend and must not be called concurrently.
type Compiler struct {
	dialect  sprocgen.Dialect
	backend  sprocgen.Backend
	mapper   sprocgen.TypeMapper
	fsys     filesystem.FileSystemProvider
	logger   sprocgen.Logger
	encoding string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFileSystem sets the filesystem sources are read from. Defaults to the OS filesystem.
func WithFileSystem(fsys filesystem.FileSystemProvider) Option {
	return func(c *Compiler) {
		c.fsys = fsys
	}
}

// WithLogger sets the logger diagnostics and failures are reported to.
func WithLogger(logger sprocgen.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithEncoding sets the character encoding of the sources. Defaults to UTF-8.
func WithEncoding(encoding string) Option {
	return func(c *Compiler) {
		c.encoding = encoding
	}
}

// NewCompiler creates a Compiler.
// Panics if dialect, backend or mapper is nil.
func NewCompiler(dialect sprocgen.Dialect, backend sprocgen.Backend, mapper sprocgen.TypeMapper, opts ...Option) *Compiler {
	if dialect == nil {
		panic("dialect cannot be nil")
	}
	if backend == nil {
		panic("backend cannot be nil")
	}
	if mapper == nil {
		panic("mapper cannot be nil")
	}

	c := &Compiler{
		dialect:  dialect,
		backend:  backend,
		mapper:   mapper,
		fsys:     filesystem.NewOSFileSystem(),
		logger:   logging.NewNullLogger(),
		encoding: sprocgen.DefaultSourceEncoding,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles the routine at path. old is the record of the previous
// run, or nil. It returns false if compilation failed; the failure has then
// been logged.
func (c *Compiler) Compile(ctx context.Context, path string, old *sprocgen.RoutineMetadata, table placeholder.Table) (*sprocgen.RoutineMetadata, bool) {
	return c.boundary(c.CompileE(ctx, path, old, table))
}

// CompilePrepared completes a routine prepared by Prepare. prepareErr is the
// error Prepare returned, if any. Like Compile, it reports failures and
// returns false.
func (c *Compiler) CompilePrepared(ctx context.Context, p *Prepared, prepareErr error, old *sprocgen.RoutineMetadata, table placeholder.Table) (*sprocgen.RoutineMetadata, bool) {
	if prepareErr != nil {
		return c.boundary(nil, prepareErr)
	}
	return c.boundary(c.Finish(ctx, p, old, table))
}

// CompileE compiles the routine at path and returns any fatal error.
func (c *Compiler) CompileE(ctx context.Context, path string, old *sprocgen.RoutineMetadata, table placeholder.Table) (*sprocgen.RoutineMetadata, error) {
	p, err := c.Prepare(path, table)
	if err != nil {
		return nil, err
	}
	return c.Finish(ctx, p, old, table)
}

func (c *Compiler) boundary(meta *sprocgen.RoutineMetadata, err error) (*sprocgen.RoutineMetadata, bool) {
	if err == nil {
		return meta, true
	}

	var sqlErr *sprocgen.SQLError
	if errors.As(err, &sqlErr) {
		if sqlLogger, ok := c.logger.(sprocgen.SQLLogger); ok {
			sqlLogger.SQLWithError(sqlErr.SQL, sqlErr.Line)
		}
	}
	c.logger.Error("%v", err)
	return nil, false
}

// Prepare runs the pure phase for the routine at path. The table is not modified.
func (c *Compiler) Prepare(path string, table placeholder.Table) (*Prepared, error) {
	src, err := ReadSource(c.fsys, path, c.encoding)
	if err != nil {
		return nil, err
	}

	substituted, err := placeholder.Substitute(placeholder.Input{
		Path:    src.Path,
		Routine: src.Name,
		Lines:   src.Lines,
	}, table)
	if err != nil {
		return nil, err
	}

	name, kind, ok := c.dialect.RoutineSignature(substituted.Lines)
	if !ok {
		return nil, &sprocgen.CompileError{
			Kind: sprocgen.ErrRoutineNameMismatch,
			Path: src.Path,
			Hint: "The source must contain a 'create function' or 'create procedure' statement",
		}
	}
	if !strings.EqualFold(name, src.Name) {
		return nil, &sprocgen.CompileError{
			Kind:  sprocgen.ErrRoutineNameMismatch,
			Path:  src.Path,
			Token: name,
			Hint:  "Rename the file to " + name + filepath.Ext(src.Path) + " or the routine to " + src.Name,
		}
	}

	block := docblock.FromSource(src.Lines, c.dialect.IsRoutineStart)
	des, err := designation.Resolve(src.Path, src.Lines, c.dialect, block)
	if err != nil {
		return nil, err
	}

	return &Prepared{
		Source:  src,
		Name:    src.Name,
		Kind:    kind,
		Block:   block,
		Spec:    des,
		Lines:   substituted.Lines,
		Replace: substituted.Replace,
	}, nil
}

// Finish runs the RDBMS phase. If old is still current it is returned as is.
func (c *Compiler) Finish(ctx context.Context, p *Prepared, old *sprocgen.RoutineMetadata, table placeholder.Table) (*sprocgen.RoutineMetadata, error) {
	reload, err := MustReload(ctx, old, p.Source, table, c.backend)
	if err != nil {
		return nil, &sprocgen.CompileError{Kind: sprocgen.ErrRoutineLoad, Path: p.Source.Path, Token: p.Name, Err: err}
	}
	if !reload {
		c.logger.Verbose("Routine %s is up to date", p.Name)
		return old, nil
	}

	c.logger.Info("Loading %s %s", p.Kind, p.Name)

	req := sprocgen.LoadRequest{Name: p.Name, Kind: p.Kind, Source: p.Text()}
	if err := c.backend.LoadRoutine(ctx, req); err != nil {
		return nil, &sprocgen.CompileError{Kind: sprocgen.ErrRoutineLoad, Path: p.Source.Path, Token: p.Name, Err: err}
	}

	var facts Facts
	facts.Parameters, err = c.backend.RoutineParameters(ctx, p.Name)
	if err != nil {
		return nil, &sprocgen.CompileError{Kind: sprocgen.ErrRoutineLoad, Path: p.Source.Path, Token: p.Name, Err: err}
	}

	if bulk, ok := p.Spec.(designation.BulkInsert); ok {
		facts.Columns, err = c.backend.TableColumns(ctx, bulk.Table)
		if err != nil {
			return nil, &sprocgen.CompileError{Kind: sprocgen.ErrRoutineLoad, Path: p.Source.Path, Token: bulk.Table, Err: err}
		}
		if len(facts.Columns) != len(bulk.Columns) {
			return nil, &sprocgen.CompileError{
				Kind:  sprocgen.ErrBulkColumnMismatch,
				Path:  p.Source.Path,
				Token: bulk.Table,
				Err:   fmt.Errorf("table has %d columns, %d keys given", len(facts.Columns), len(bulk.Columns)),
				Hint:  "List one key per column of the table in '@type bulk_insert <table> <keys>'",
			}
		}
	}

	for _, warning := range Reconcile(facts.Parameters, p.Block.Params()) {
		c.logger.Warning("%s in file %s", warning, p.Source.Path)
	}

	return Assemble(p, facts, c.mapper), nil
}
