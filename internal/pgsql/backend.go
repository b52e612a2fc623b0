package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/sprocgen/internal/logging"
	"github.com/vvka-141/sprocgen/internal/retry"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// DB is the part of a pgx connection the backend uses.
// *pgx.Conn, *pgxpool.Conn and pgx.Tx satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Backend loads routines into PostgreSQL and reads back their catalog facts.
//
// Temporary tables targeted by bulk_insert routines are only visible on the
// session that created them, so a Backend must be given a single connection
// rather than a pool.
type Backend struct {
	db       DB
	executor *retry.Executor
	logger   sprocgen.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger dropped overloads are reported to.
func WithLogger(logger sprocgen.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// WithRetryExecutor sets the executor catalog queries are retried with.
func WithRetryExecutor(executor *retry.Executor) Option {
	return func(b *Backend) {
		b.executor = executor
	}
}

// NewBackend creates a Backend on db.
// Panics if db is nil.
func NewBackend(db DB, opts ...Option) *Backend {
	if db == nil {
		panic("db cannot be nil")
	}

	b := &Backend{
		db:       db,
		executor: retry.NewDefaultExecutor(),
		logger:   logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.executor = b.executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		b.logger.Warning("Catalog query failed, retrying in %v (attempt %d): %v", delay, attempt+1, err)
	})
	return b
}

// LoadRoutine drops every routine named req.Name in the search path and
// executes the source. A statement the server rejects is returned as a
// *sprocgen.SQLError pointing at the offending line.
func (b *Backend) LoadRoutine(ctx context.Context, req sprocgen.LoadRequest) error {
	if err := b.dropOverloads(ctx, req.Name); err != nil {
		return err
	}

	if _, err := b.db.Exec(ctx, req.Source); err != nil {
		return &sprocgen.SQLError{SQL: req.Source, Line: errorLine(req.Source, err), Err: err}
	}
	return nil
}

// DropRoutine drops every routine named name in the search path.
func (b *Backend) DropRoutine(ctx context.Context, name string) error {
	return b.dropOverloads(ctx, name)
}

func (b *Backend) dropOverloads(ctx context.Context, name string) error {
	type overload struct {
		signature string
		kind      string
	}

	var overloads []overload
	err := b.executor.Execute(ctx, func(ctx context.Context) error {
		rows, err := b.db.Query(ctx, queryOverloads, strings.ToLower(name))
		if err != nil {
			return err
		}
		overloads, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (overload, error) {
			var o overload
			err := row.Scan(&o.signature, &o.kind)
			return o, err
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list overloads of %s: %w", name, err)
	}

	for _, o := range overloads {
		kind := "FUNCTION"
		if o.kind == "p" {
			kind = "PROCEDURE"
		}
		b.logger.Verbose("Dropping %s %s", strings.ToLower(kind), o.signature)

		stmt := fmt.Sprintf("DROP %s IF EXISTS %s", kind, o.signature)
		if _, err := b.db.Exec(ctx, stmt); err != nil {
			return &sprocgen.SQLError{SQL: stmt, Err: err}
		}
	}
	return nil
}

// RoutineParameters returns the IN and INOUT parameters of the routine.
func (b *Backend) RoutineParameters(ctx context.Context, name string) ([]sprocgen.RoutineParameter, error) {
	var params []sprocgen.RoutineParameter
	err := b.executor.Execute(ctx, func(ctx context.Context) error {
		rows, err := b.db.Query(ctx, queryRoutineParameters, strings.ToLower(name))
		if err != nil {
			return err
		}
		params, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (sprocgen.RoutineParameter, error) {
			var p sprocgen.RoutineParameter
			var length, precision, scale *int32
			if err := row.Scan(&p.Name, &p.DataType, &p.Mode, &length, &precision, &scale); err != nil {
				return p, err
			}
			p.Descriptor = Descriptor(p.DataType, length, precision, scale)
			return p, nil
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters of %s: %w", name, err)
	}
	return params, nil
}

// TableColumns returns the columns of a table, optionally schema-qualified.
func (b *Backend) TableColumns(ctx context.Context, table string) ([]sprocgen.TableColumn, error) {
	schema, name := splitQualified(strings.ToLower(table))

	var columns []sprocgen.TableColumn
	err := b.executor.Execute(ctx, func(ctx context.Context) error {
		rows, err := b.db.Query(ctx, queryTableColumns, schema, name)
		if err != nil {
			return err
		}
		columns, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (sprocgen.TableColumn, error) {
			var c sprocgen.TableColumn
			var length, precision, scale *int32
			if err := row.Scan(&c.Name, &c.DataType, &length, &precision, &scale); err != nil {
				return c, err
			}
			c.Descriptor = Descriptor(c.DataType, length, precision, scale)
			return c, nil
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	return columns, nil
}

// RoutineExists reports whether a routine named name is in the search path.
func (b *Backend) RoutineExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := b.executor.Execute(ctx, func(ctx context.Context) error {
		return b.db.QueryRow(ctx, queryRoutineExists, strings.ToLower(name)).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up routine %s: %w", name, err)
	}
	return exists, nil
}

// ReplacePairs returns the column type placeholders of the tables in the
// search path: "@table.column%type@" and "@schema.table.column%type@" map to
// the column type with its length or precision, the %max-type variants to
// the type without them. Where a table name occurs in several schemas the
// first schema of the search path wins.
func (b *Backend) ReplacePairs(ctx context.Context) (map[string]string, error) {
	pairs := make(map[string]string)
	err := b.executor.Execute(ctx, func(ctx context.Context) error {
		rows, err := b.db.Query(ctx, queryColumnTypes)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var schema, table, column, dataType string
			var length, precision, scale *int32
			if err := rows.Scan(&schema, &table, &column, &dataType, &length, &precision, &scale); err != nil {
				return err
			}
			descriptor := Descriptor(dataType, length, precision, scale)
			for _, qualified := range []string{table + "." + column, schema + "." + table + "." + column} {
				key := strings.ToLower(qualified)
				pairs["@"+key+"%type@"] = descriptor
				pairs["@"+key+"%max-type@"] = dataType
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	return pairs, nil
}

// errorLine returns the 1-based line of sql the server error points at, or 0.
func errorLine(sql string, err error) int {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Position <= 0 {
		return 0
	}

	// Position counts characters, not bytes.
	runes := []rune(sql)
	pos := int(pgErr.Position)
	if pos > len(runes) {
		pos = len(runes)
	}
	if pos < 1 {
		return 1
	}
	return strings.Count(string(runes[:pos-1]), "\n") + 1
}

func splitQualified(name string) (schema, object string) {
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		return name[:dot], name[dot+1:]
	}
	return "", name
}

var _ sprocgen.Backend = (*Backend)(nil)
