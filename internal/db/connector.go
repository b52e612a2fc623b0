package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sprocgen/internal/logging"
	"github.com/vvka-141/sprocgen/internal/retry"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns bounds the pool. A compilation run holds one
	// connection for the backend and the staleness checks.
	DefaultMaxConns = 4

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps the connection alive across a long run.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// StandardConnector implements the Connector interface for username/password
// authentication with automatic retry on transient failures.
type StandardConnector struct {
	config   *sprocgen.ConnectionConfig
	executor *retry.Executor
	logger   sprocgen.Logger
}

// ConnectorOption configures a StandardConnector.
type ConnectorOption func(*StandardConnector)

// WithConnectorLogger sets the logger server notices are reported to.
func WithConnectorLogger(logger sprocgen.Logger) ConnectorOption {
	return func(c *StandardConnector) {
		c.logger = logger
	}
}

// WithConnectRetry sets the executor connection attempts are retried with.
func WithConnectRetry(executor *retry.Executor) ConnectorOption {
	return func(c *StandardConnector) {
		c.executor = executor
	}
}

// NewStandardConnector creates a StandardConnector. Connection attempts are
// retried with retry.NewDefaultExecutor unless configured otherwise.
func NewStandardConnector(config *sprocgen.ConnectionConfig, opts ...ConnectorOption) *StandardConnector {
	c := &StandardConnector{
		config:   config,
		executor: retry.NewDefaultExecutor(),
		logger:   logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes a connection pool and pings the server.
// Failures wrap sprocgen.ErrConnectionFailed.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(c.config))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse connection config: %v", sprocgen.ErrConnectionFailed, err)
	}
	c.configurePool(poolConfig)

	var pool *pgxpool.Pool
	err = c.executor.Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, c.config)
	}

	return pool, nil
}

func (c *StandardConnector) configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		c.logger.Info("%s: %s", notice.Severity, notice.Message)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, config *sprocgen.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf("connection refused to %s\n\nIs PostgreSQL running? Check: pg_isready -h %s -p %d", addr, config.Host, config.Port)
	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		hint = fmt.Sprintf("cannot resolve host %q\n\nCheck the hostname and your DNS settings", config.Host)
	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for user %q\n\nCheck $PGPASSWORD, ~/.pgpass or the password in the connection string", config.Username)
	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist\n\nTo create it: createdb %s", config.Database, config.Database)
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf("connection timed out to %s\n\nCheck the host, the port and any firewall in between", addr)
	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		hint = "SSL/TLS connection error\n\nCheck --sslmode and the certificates configured for the connection"
	default:
		return fmt.Errorf("%w: failed to connect to database: %w", sprocgen.ErrConnectionFailed, err)
	}
	return fmt.Errorf("%w: %s\n\nOriginal error: %w", sprocgen.ErrConnectionFailed, hint, err)
}

var _ sprocgen.Connector = (*StandardConnector)(nil)
