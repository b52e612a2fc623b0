// Package retry retries database operations that fail for transient reasons.
//
// An Executor runs an operation, asks an ErrorClassifier whether a failure is
// worth retrying and waits between attempts as a BackoffStrategy dictates.
// The connector uses it to establish the connection pool and the PostgreSQL
// backend to run its catalog queries.
//
//	executor := retry.NewDefaultExecutor()
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// PostgreSQLErrorClassifier treats connection exceptions, insufficient
// resources, operator intervention, serialization failures, deadlocks and
// network level failures as transient. Everything else fails immediately.
package retry
