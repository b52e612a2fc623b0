package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/sprocgen/internal/checksum"
	"github.com/vvka-141/sprocgen/internal/config"
	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/internal/files/scanner"
	"github.com/vvka-141/sprocgen/internal/metastore"
	"github.com/vvka-141/sprocgen/internal/pgsql"
	"github.com/vvka-141/sprocgen/internal/placeholder"
	"github.com/vvka-141/sprocgen/internal/routine"
	"github.com/vvka-141/sprocgen/internal/wrapper"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// RoutineBackend is the database side of a build.
type RoutineBackend interface {
	sprocgen.Backend

	// ReplacePairs returns the %type and %max-type placeholders of all table columns.
	ReplacePairs(ctx context.Context) (map[string]string, error)

	// DropRoutine drops every routine named name.
	DropRoutine(ctx context.Context, name string) error
}

// BackendFactory opens a RoutineBackend. The returned function releases it.
type BackendFactory func(ctx context.Context) (RoutineBackend, func(), error)

// BuildConfig describes one build of a project.
type BuildConfig struct {
	ProjectDir   string
	Project      *config.ProjectConfig // Defaults applied
	Placeholders map[string]string     // Command line placeholders; win over the config
	DropObsolete bool                  // Drop routines whose source disappeared
}

// LoadResult summarizes a load run.
type LoadResult struct {
	Loaded   []string // Routines (re)loaded into the database
	UpToDate []string // Routines whose record was still current
	Failed   []string // Source files that failed to compile
	Obsolete []string // Routines whose source disappeared
	Saved    bool     // Whether the metadata file changed
}

// Builder compiles the routines of a project and generates its data layer.
//
// Preparing sources (reading, placeholders, doc blocks, designations) runs
// concurrently; everything touching the database runs on one connection in
// source order.
type Builder struct {
	backends    BackendFactory
	logger      sprocgen.Logger
	fsys        filesystem.FileSystemProvider
	dialect     sprocgen.Dialect
	mapper      sprocgen.TypeMapper
	concurrency int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFileSystem sets the filesystem sources, metadata and wrapper live on.
func WithFileSystem(fsys filesystem.FileSystemProvider) BuilderOption {
	return func(b *Builder) {
		b.fsys = fsys
	}
}

// WithConcurrency bounds how many sources are prepared at once.
func WithConcurrency(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBuilder creates a Builder. backends may be nil for a builder that only
// generates wrappers.
// Panics if logger is nil.
func NewBuilder(backends BackendFactory, logger sprocgen.Logger, opts ...BuilderOption) *Builder {
	if logger == nil {
		panic("logger cannot be nil")
	}

	b := &Builder{
		backends:    backends,
		logger:      logger,
		fsys:        filesystem.NewOSFileSystem(),
		dialect:     pgsql.NewDialect(),
		mapper:      pgsql.NewTypeMap(),
		concurrency: sprocgen.DefaultPrepareConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build loads the routines and, if all of them compiled, generates the wrapper.
func (b *Builder) Build(ctx context.Context, cfg BuildConfig) error {
	if _, err := b.Load(ctx, cfg); err != nil {
		return err
	}
	_, err := b.Wrapper(cfg)
	return err
}

// Load compiles every routine source of the project into the database and
// saves the metadata records. Records of routines that failed are dropped so
// that the next run retries them. It returns an error wrapping
// sprocgen.ErrCompileFailed if any routine failed.
func (b *Builder) Load(ctx context.Context, cfg BuildConfig) (*LoadResult, error) {
	if b.backends == nil {
		return nil, fmt.Errorf("%w: no database configured", sprocgen.ErrInvalidConfig)
	}
	project := cfg.Project

	sourceDir := config.Resolve(cfg.ProjectDir, project.Source.Directory)
	sources, err := scanner.NewScannerWithFS(b.fsys, project.Source.Extension).ScanDirectory(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", sourceDir, err)
	}
	b.logger.Verbose("Found %d routine sources in %s", len(sources), sourceDir)

	store := b.metadataStore(cfg)
	records, err := store.Load()
	if err != nil {
		return nil, err
	}

	backend, release, err := b.backends(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	table, err := b.placeholderTable(ctx, cfg, backend)
	if err != nil {
		return nil, err
	}

	compiler := routine.NewCompiler(b.dialect, backend, b.mapper,
		routine.WithFileSystem(b.fsys),
		routine.WithLogger(b.logger),
		routine.WithEncoding(project.Source.Encoding),
	)

	prepared, prepareErrs, err := b.prepareAll(ctx, compiler, sources, table)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	names := make([]string, 0, len(sources))
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		names = append(names, src.Routine)

		old := records.Get(src.Routine)
		meta, ok := compiler.CompilePrepared(ctx, prepared[i], prepareErrs[i], old, table)
		switch {
		case !ok:
			result.Failed = append(result.Failed, src.Path)
			delete(records, metastore.Key(src.Routine))
		case meta == old:
			result.UpToDate = append(result.UpToDate, src.Routine)
		default:
			result.Loaded = append(result.Loaded, src.Routine)
			records.Put(meta)
		}
	}

	for _, meta := range records.Prune(names) {
		result.Obsolete = append(result.Obsolete, meta.RoutineName)
		if !cfg.DropObsolete {
			b.logger.Info("Removed metadata of %s: its source no longer exists", meta.RoutineName)
			continue
		}
		if err := backend.DropRoutine(ctx, meta.RoutineName); err != nil {
			return nil, fmt.Errorf("failed to drop obsolete routine %s: %w", meta.RoutineName, err)
		}
		b.logger.Info("Dropped obsolete %s %s", meta.RoutineKind, meta.RoutineName)
	}

	result.Saved, err = store.Save(records)
	if err != nil {
		return nil, err
	}

	b.logger.Info("Loaded %d, up to date %d, failed %d of %d routines",
		len(result.Loaded), len(result.UpToDate), len(result.Failed), len(sources))
	if len(result.Failed) > 0 {
		for _, path := range result.Failed {
			b.logger.Error("Failed: %s", path)
		}
		return result, fmt.Errorf("%w: %d of %d routines", sprocgen.ErrCompileFailed, len(result.Failed), len(sources))
	}
	return result, nil
}

// Wrapper generates the data layer from the saved metadata records and
// reports whether the wrapper file changed.
func (b *Builder) Wrapper(cfg BuildConfig) (bool, error) {
	records, err := b.metadataStore(cfg).Load()
	if err != nil {
		return false, err
	}

	gen := wrapper.NewGenerator(wrapper.Config{
		Package:       cfg.Project.Wrapper.Package,
		TypeName:      cfg.Project.Wrapper.Type,
		RuntimeImport: cfg.Project.Wrapper.Runtime,
	})
	source, err := gen.Generate(records.Sorted())
	if err != nil {
		return false, err
	}

	output := config.Resolve(cfg.ProjectDir, cfg.Project.Wrapper.Output)
	written, err := b.writer().Write(output, source)
	if err != nil {
		return false, fmt.Errorf("%w: %v", sprocgen.ErrWrapperFailed, err)
	}
	b.logger.Info("Generated %d wrapper methods in %s", len(records), output)
	return written, nil
}

func (b *Builder) writer() *checksum.Writer {
	return checksum.NewWriter(b.fsys, checksum.WithLogger(b.logger))
}

func (b *Builder) metadataStore(cfg BuildConfig) *metastore.Store {
	return metastore.New(b.fsys, b.writer(), config.Resolve(cfg.ProjectDir, cfg.Project.Metadata))
}

// placeholderTable merges the database %type pairs with the configured
// placeholders; configured placeholders win.
func (b *Builder) placeholderTable(ctx context.Context, cfg BuildConfig, backend RoutineBackend) (placeholder.Table, error) {
	pairs, err := backend.ReplacePairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	configured, err := cfg.Project.PlaceholdersFrom(cfg.ProjectDir, cfg.Placeholders)
	if err != nil {
		return nil, err
	}

	table := placeholder.NewTable(pairs, configured)
	b.logger.Verbose("Placeholder table has %d entries", len(table))
	return table, nil
}

// prepareAll runs the pure phase of every source concurrently, each on its
// own copy of the table. Per-source failures are returned in errs; only
// cancellation fails the whole call.
func (b *Builder) prepareAll(ctx context.Context, compiler *routine.Compiler, sources []scanner.Source, table placeholder.Table) ([]*routine.Prepared, []error, error) {
	prepared := make([]*routine.Prepared, len(sources))
	errs := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prepared[i], errs[i] = compiler.Prepare(src.Path, table.Clone())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return prepared, errs, nil
}
