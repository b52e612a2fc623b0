// Package db connects to the PostgreSQL server routines are loaded into.
//
// ResolveConnectionParams combines the --connection flag, the granular -h,
// -p, -U, -d and --sslmode flags, the libpq environment variables and the
// connection section of sprocgen.yaml into one sprocgen.ConnectionConfig.
// StandardConnector turns it into a pgx pool, retrying transient failures.
package db
