package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/sprocgen/internal/pgsql"
	"github.com/vvka-141/sprocgen/internal/retry"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// PostgresBackends returns a BackendFactory that connects with connector and
// runs the whole build on one acquired connection. Temporary tables created
// by a routine source stay visible to the routines loaded after it only on
// that connection.
// Panics if connector or logger is nil.
func PostgresBackends(connector sprocgen.Connector, logger sprocgen.Logger) BackendFactory {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return func(ctx context.Context) (RoutineBackend, func(), error) {
		pool, err := connector.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}

		conn, err := pool.Acquire(ctx)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("%w: failed to acquire connection: %v", sprocgen.ErrConnectionFailed, err)
		}

		backend := pgsql.NewBackend(conn,
			pgsql.WithLogger(logger),
			pgsql.WithRetryExecutor(retry.NewDefaultExecutor()),
		)
		release := func() {
			conn.Release()
			pool.Close()
		}
		return backend, release, nil
	}
}
