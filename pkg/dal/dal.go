package dal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrRowCount is returned when a routine returns an unexpected number of rows.
var ErrRowCount = errors.New("unexpected number of rows")

// Querier runs statements. *pgxpool.Pool, *pgx.Conn and pgx.Tx implement it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BulkHandler receives the rows of a bulk routine one at a time.
type BulkHandler interface {
	// Start is called before the first row.
	Start()

	// Row is called for each row. Returning an error stops the routine.
	Row(row map[string]any) error

	// Stop is called after the last row, also when the rows were aborted.
	Stop()
}

// DataLayer executes stored routines.
type DataLayer struct {
	db  Querier
	log io.Writer
}

// Option configures a DataLayer.
type Option func(*DataLayer)

// WithLogWriter sets where ExecuteLog writes messages. Defaults to stdout.
func WithLogWriter(w io.Writer) Option {
	return func(d *DataLayer) {
		d.log = w
	}
}

// New creates a DataLayer on db.
// Panics if db is nil.
func New(db Querier, opts ...Option) *DataLayer {
	if db == nil {
		panic("db cannot be nil")
	}
	d := &DataLayer{db: db, log: os.Stdout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB returns the underlying querier.
func (d *DataLayer) DB() Querier {
	return d.db
}

// ExecuteNone executes a statement that selects no rows and returns the number
// of affected rows.
func (d *DataLayer) ExecuteNone(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := d.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExecuteLog executes a routine whose rows are log messages. Each row is
// written as one line, columns separated by a space. Returns the number of rows.
func (d *DataLayer) ExecuteLog(ctx context.Context, sql string, args ...any) (int64, error) {
	rows, err := d.db.Query(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return n, err
		}
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(d.log, strings.Join(parts, " "))
		n++
	}
	return n, rows.Err()
}

// ExecuteSingleton0 executes a routine that selects 0 or 1 row with one
// column and returns the value, or nil if no row was selected.
func (d *DataLayer) ExecuteSingleton0(ctx context.Context, sql string, args ...any) (any, error) {
	values, err := d.firstColumn(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return values[0], nil
	default:
		return nil, fmt.Errorf("%w: expected 0 or 1, got %d", ErrRowCount, len(values))
	}
}

// ExecuteSingleton1 executes a routine that selects exactly 1 row with one
// column and returns the value.
func (d *DataLayer) ExecuteSingleton1(ctx context.Context, sql string, args ...any) (any, error) {
	values, err := d.firstColumn(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%w: expected 1, got %d", ErrRowCount, len(values))
	}
	return values[0], nil
}

// ExecuteFunction executes a stored function and returns its value.
func (d *DataLayer) ExecuteFunction(ctx context.Context, sql string, args ...any) (any, error) {
	return d.ExecuteSingleton1(ctx, sql, args...)
}

// ExecuteRow0 executes a routine that selects 0 or 1 row and returns the row,
// or nil if no row was selected.
func (d *DataLayer) ExecuteRow0(ctx context.Context, sql string, args ...any) (map[string]any, error) {
	rows, err := d.ExecuteRows(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, fmt.Errorf("%w: expected 0 or 1, got %d", ErrRowCount, len(rows))
	}
}

// ExecuteRow1 executes a routine that selects exactly 1 row and returns it.
func (d *DataLayer) ExecuteRow1(ctx context.Context, sql string, args ...any) (map[string]any, error) {
	rows, err := d.ExecuteRows(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("%w: expected 1, got %d", ErrRowCount, len(rows))
	}
	return rows[0], nil
}

// ExecuteRows executes a routine and returns all selected rows.
func (d *DataLayer) ExecuteRows(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	rows, err := d.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

// ExecuteMulti executes a routine that returns its result sets as refcursors
// and fetches every result set. It runs in its own (sub)transaction since
// cursors only live as long as the transaction that opened them.
func (d *DataLayer) ExecuteMulti(ctx context.Context, sql string, args ...any) ([][]map[string]any, error) {
	tx, err := d.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	cursors, err := cursorNames(rows)
	if err != nil {
		return nil, err
	}

	results := make([][]map[string]any, 0, len(cursors))
	for _, cursor := range cursors {
		fetched, err := tx.Query(ctx, "fetch all from "+pgx.Identifier{cursor}.Sanitize())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch cursor %s: %w", cursor, err)
		}
		result, err := pgx.CollectRows(fetched, pgx.RowToMap)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// ExecuteBulk executes a routine and passes each selected row to handler.
// Returns the number of rows passed.
func (d *DataLayer) ExecuteBulk(ctx context.Context, handler BulkHandler, sql string, args ...any) (int64, error) {
	rows, err := d.db.Query(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	handler.Start()
	defer handler.Stop()

	var n int64
	for rows.Next() {
		row, err := pgx.RowToMap(rows)
		if err != nil {
			return n, err
		}
		if err := handler.Row(row); err != nil {
			return n, err
		}
		n++
	}
	return n, rows.Err()
}

func (d *DataLayer) firstColumn(ctx context.Context, sql string, args []any) ([]any, error) {
	rows, err := d.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (any, error) {
		values, err := row.Values()
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, nil
		}
		return values[0], nil
	})
}

func cursorNames(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	var names []string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			if v != nil {
				names = append(names, fmt.Sprint(v))
			}
		}
	}
	return names, rows.Err()
}
