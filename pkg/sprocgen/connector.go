package sprocgen

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes a connection pool to the database the routines are loaded into.
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	SSLCert     string
	SSLKey      string
	SSLRootCert string

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string
}
