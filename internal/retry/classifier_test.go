package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp: deadline" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return false }

func TestPostgreSQLErrorClassifier_IsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"cannot connect now", &pgconn.PgError{Code: "57P03"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"syntax error", &pgconn.PgError{Code: "42601", Message: "connection refused"}, false},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"wrapped pg error", fmt.Errorf("query: %w", &pgconn.PgError{Code: "08000"}), true},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"net timeout", &net.OpError{Op: "read", Err: timeoutError{}}, true},
		{"message only", errors.New("server closed the connection unexpectedly"), true},
		{"canceled", context.Canceled, false},
		{"other", errors.New("permission denied for schema public"), false},
	}

	c := NewPostgreSQLErrorClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsTransient(tt.err))
		})
	}
}
