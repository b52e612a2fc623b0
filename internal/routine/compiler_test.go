package routine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sprocgen/internal/designation"
	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/internal/placeholder"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

const usersSource = `/**
 * Selects the users of a company grouped by department and role.
 *
 * @param p_cmp_id The ID of the company.
 * @param p_unknown Not a parameter.
 *
 * @type rows_with_index usr_dept,usr_role
 * @return map
 */
create or replace function @app.schema@.tst_users(p_cmp_id @tst_company.cmp_id%type@, p_since timestamp)
returns setof tst_user
as $$
  select * from @app.schema@.tst_user where cmp_id = p_cmp_id; -- __ROUTINE__ line __LINE__
$$ language sql;`

type compilerFixture struct {
	fs       *filesystem.MemoryFileSystem
	backend  *mockBackend
	logger   *recordingLogger
	compiler *Compiler
	table    placeholder.Table
}

func newCompilerFixture(t *testing.T) *compilerFixture {
	t.Helper()

	f := &compilerFixture{
		fs:      filesystem.NewMemoryFileSystem("/project"),
		backend: newMockBackend(),
		logger:  &recordingLogger{},
		table: placeholder.NewTable(map[string]string{
			"@app.schema@":              "app",
			"@tst_company.cmp_id%type@": "integer",
		}),
	}
	f.compiler = NewCompiler(mockDialect{}, f.backend, mockMapper{},
		WithFileSystem(f.fs),
		WithLogger(f.logger),
	)
	return f
}

func TestCompile_RowsWithIndex(t *testing.T) {
	f := newCompilerFixture(t)
	f.fs.AddFileWithTime("psql/tst_users.psql", usersSource, time.Unix(1700000000, 0))
	f.backend.params["tst_users"] = []sprocgen.RoutineParameter{
		{Name: "p_cmp_id", DataType: "integer", Descriptor: "integer", Mode: "IN"},
		{Name: "p_since", DataType: "timestamp without time zone", Descriptor: "timestamp without time zone", Mode: "IN"},
	}

	meta, ok := f.compiler.Compile(context.Background(), "/project/psql/tst_users.psql", nil, f.table)
	require.True(t, ok, "errors: %v", f.logger.errors)

	assert.Equal(t, ID("tst_users"), meta.ID)
	assert.Equal(t, "tst_users", meta.RoutineName)
	assert.Equal(t, sprocgen.RoutineKindFunction, meta.RoutineKind)
	assert.Equal(t, "rows_with_index", meta.Designation)
	assert.Nil(t, meta.TableName)
	assert.Equal(t, []string{"usr_dept", "usr_role"}, meta.Columns)
	assert.Nil(t, meta.Fields)
	assert.Nil(t, meta.ColumnTypes)
	assert.Equal(t, int64(1700000000), meta.Timestamp)
	assert.Equal(t, map[string]string{
		"@app.schema@":              "app",
		"@tst_company.cmp_id%type@": "integer",
	}, meta.Replace)

	assert.Equal(t, []sprocgen.ParameterInfo{
		{Name: "p_cmp_id", DataTypeDescriptor: "integer", TypeName: "int32", TypeHint: "*int32", Description: "The ID of the company."},
		{Name: "p_since", DataTypeDescriptor: "timestamp without time zone", TypeName: "time.Time", TypeHint: "*time.Time", TypeImport: "time"},
	}, meta.Parameters)

	assert.Equal(t, "Selects the users of a company grouped by department and role.", meta.Doc.Description)
	assert.Equal(t, "map", meta.Doc.Return)
	require.Len(t, meta.Doc.Parameters, 2)
	assert.Equal(t, sprocgen.ParameterDoc{Name: "p_cmp_id", TypeName: "int32", Descriptor: "integer", Description: "The ID of the company."}, meta.Doc.Parameters[0])

	require.Len(t, f.backend.loaded, 1)
	loaded := f.backend.loaded[0]
	assert.Equal(t, "tst_users", loaded.Name)
	assert.Equal(t, sprocgen.RoutineKindFunction, loaded.Kind)
	assert.Contains(t, loaded.Source, "create or replace function app.tst_users(p_cmp_id integer, p_since timestamp)")
	assert.Contains(t, loaded.Source, "-- 'tst_users' line '13'")
	assert.Equal(t, len(strings.Split(usersSource, "\n")), len(strings.Split(loaded.Source, "\n")))

	assert.Equal(t, []string{
		"Parameter p_since is missing in doc block in file /project/psql/tst_users.psql",
		"Unknown parameter p_unknown found in doc block in file /project/psql/tst_users.psql",
	}, f.logger.warnings)
	assert.Empty(t, f.logger.errors)
}

func TestCompile_UpToDate(t *testing.T) {
	f := newCompilerFixture(t)
	f.fs.AddFileWithTime("psql/tst_users.psql", usersSource, time.Unix(1700000000, 0))
	f.backend.exists["tst_users"] = true

	old := &sprocgen.RoutineMetadata{
		RoutineName: "tst_users",
		Timestamp:   1700000000,
		Replace:     map[string]string{"@app.schema@": "app", "@tst_company.cmp_id%type@": "integer"},
	}

	meta, ok := f.compiler.Compile(context.Background(), "/project/psql/tst_users.psql", old, f.table)
	require.True(t, ok)

	assert.Same(t, old, meta)
	assert.Empty(t, f.backend.loaded)
}

func TestCompile_BulkInsert(t *testing.T) {
	f := newCompilerFixture(t)
	f.fs.AddFile("psql/tst_orders.psql", strings.Join([]string{
		"create procedure tst_orders()",
		"-- type: bulk_insert tmp_orders id,name",
		"as $$",
		"  select ord_id, ord_name from tst_order;",
		"$$ language sql;",
	}, "\n"))
	f.backend.columns["tmp_orders"] = []sprocgen.TableColumn{
		{Name: "ord_id", DataType: "integer", Descriptor: "integer"},
		{Name: "ord_name", DataType: "character varying", Descriptor: "character varying(40)"},
	}

	meta, err := f.compiler.CompileE(context.Background(), "/project/psql/tst_orders.psql", nil, f.table)
	require.NoError(t, err)

	assert.Equal(t, sprocgen.RoutineKindProcedure, meta.RoutineKind)
	assert.Equal(t, "bulk_insert", meta.Designation)
	require.NotNil(t, meta.TableName)
	assert.Equal(t, "tmp_orders", *meta.TableName)
	assert.Equal(t, []string{"id", "name"}, meta.Columns)
	assert.Equal(t, []string{"ord_id", "ord_name"}, meta.Fields)
	assert.Equal(t, []string{"integer", "character varying(40)"}, meta.ColumnTypes)
	assert.Empty(t, meta.Parameters)
	assert.Equal(t, map[string]string{}, meta.Replace)

	des, err := designation.FromMetadata(meta)
	require.NoError(t, err)
	assert.Equal(t, designation.BulkInsert{Table: "tmp_orders", Columns: []string{"id", "name"}}, des)
}

func TestCompile_Failures(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		source   string
		setup    func(f *compilerFixture)
		wantKind error
	}{
		{
			name:     "missing source",
			path:     "/project/psql/tst_missing.psql",
			wantKind: sprocgen.ErrSourceMissing,
		},
		{
			name:     "unknown placeholder",
			path:     "/project/psql/tst_f.psql",
			source:   "/** @type rows */\ncreate function tst_f()\nas $$ select @nope@; $$;",
			wantKind: sprocgen.ErrUnknownPlaceholder,
		},
		{
			name:     "name mismatch",
			path:     "/project/psql/tst_f.psql",
			source:   "/** @type rows */\ncreate function tst_g()\nas $$ select 1; $$;",
			wantKind: sprocgen.ErrRoutineNameMismatch,
		},
		{
			name:     "no create statement",
			path:     "/project/psql/tst_f.psql",
			source:   "/** @type rows */\nselect 1;",
			wantKind: sprocgen.ErrRoutineNameMismatch,
		},
		{
			name:     "no designation",
			path:     "/project/psql/tst_f.psql",
			source:   "/** Doc. */\ncreate function tst_f()\nas $$ select 1; $$;",
			wantKind: sprocgen.ErrNoDesignation,
		},
		{
			name:     "bulk column mismatch",
			path:     "/project/psql/tst_f.psql",
			source:   "/** @type bulk_insert tmp_t a,b */\ncreate procedure tst_f()\nas $$ select 1; $$;",
			setup: func(f *compilerFixture) {
				f.backend.columns["tmp_t"] = []sprocgen.TableColumn{{Name: "a"}}
			},
			wantKind: sprocgen.ErrBulkColumnMismatch,
		},
		{
			name:     "load failure",
			path:     "/project/psql/tst_f.psql",
			source:   "/** @type rows */\ncreate function tst_f()\nas $$ select 1; $$;",
			setup: func(f *compilerFixture) {
				f.backend.loadErr = errors.New("syntax error")
			},
			wantKind: sprocgen.ErrRoutineLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCompilerFixture(t)
			if tt.source != "" {
				f.fs.AddFile(tt.path, tt.source)
			}
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.compiler.CompileE(context.Background(), tt.path, nil, f.table)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)
			assert.Contains(t, err.Error(), tt.path)

			meta, ok := f.compiler.Compile(context.Background(), tt.path, nil, f.table)
			assert.False(t, ok)
			assert.Nil(t, meta)
			assert.Len(t, f.logger.errors, 1)
		})
	}
}

func TestCompile_SQLErrorListing(t *testing.T) {
	f := newCompilerFixture(t)
	f.fs.AddFile("psql/tst_f.psql", "/** @type rows */\ncreate function tst_f()\nas $$ selec 1; $$;")
	f.backend.loadErr = &sprocgen.SQLError{SQL: "create function tst_f()\nas $$ selec 1; $$;", Line: 2, Err: errors.New(`syntax error at or near "selec"`)}

	_, ok := f.compiler.Compile(context.Background(), "/project/psql/tst_f.psql", nil, f.table)
	require.False(t, ok)

	assert.Equal(t, []string{"2:create function tst_f()\nas $$ selec 1; $$;"}, f.logger.sql)
	require.Len(t, f.logger.errors, 1)
	assert.Contains(t, f.logger.errors[0], `line 2: syntax error at or near "selec"`)
}

func TestCompilePrepared(t *testing.T) {
	f := newCompilerFixture(t)
	f.fs.AddFile("psql/tst_f.psql", "/** @type singleton1 */\ncreate function tst_f()\nas $$ select 1; $$;")

	p, err := f.compiler.Prepare("/project/psql/tst_f.psql", f.table)
	require.NoError(t, err)
	assert.Equal(t, designation.Singleton1{}, p.Spec)
	assert.Empty(t, f.backend.loaded)

	meta, ok := f.compiler.CompilePrepared(context.Background(), p, nil, nil, f.table)
	require.True(t, ok)
	assert.Equal(t, "singleton1", meta.Designation)

	_, ok = f.compiler.CompilePrepared(context.Background(), nil, errors.New("boom"), nil, f.table)
	assert.False(t, ok)
	assert.Equal(t, []string{"boom"}, f.logger.errors)
}

func TestNewCompiler_NilArgs(t *testing.T) {
	assert.Panics(t, func() { NewCompiler(nil, newMockBackend(), mockMapper{}) })
	assert.Panics(t, func() { NewCompiler(mockDialect{}, nil, mockMapper{}) })
	assert.Panics(t, func() { NewCompiler(mockDialect{}, newMockBackend(), nil) })
}
