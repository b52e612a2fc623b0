package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/sprocgen/internal/config"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// DefaultAppName is the application_name the connection reports to the server.
const DefaultAppName = "sprocgen"

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// There is no password flag. Use $PGPASSWORD, ~/.pgpass or a connection string.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty reports whether no server-selecting flag was given. The database
// flag is left out: it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Rails convention)
}

// LoadFromEnvironment reads the PostgreSQL environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:       os.Getenv("PGHOST"),
		PGPORT:       os.Getenv("PGPORT"),
		PGUSER:       os.Getenv("PGUSER"),
		PGPASSWORD:   os.Getenv("PGPASSWORD"),
		PGDATABASE:   os.Getenv("PGDATABASE"),
		PGSSLMODE:    os.Getenv("PGSSLMODE"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
	}
}

// ResolveConnectionParams resolves the connection with PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection)
//  2. DATABASE_URL, unless granular flags are given
//  3. Per parameter: granular flag, environment variable, sprocgen.yaml, default
//
// A -d flag overrides the database of a connection string. Giving both
// --connection and server-selecting granular flags is an error.
func ResolveConnectionParams(
	connStringFlag string,
	flags *GranularConnFlags,
	env *EnvVars,
	project *config.ConnectionConfig,
) (*sprocgen.ConnectionConfig, error) {
	if flags == nil {
		flags = &GranularConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	if project == nil {
		project = &config.ConnectionConfig{}
	}

	if connStringFlag != "" && !flags.IsEmpty() {
		return nil, fmt.Errorf("%w: cannot specify both --connection and granular flags (-h, -p, -U, --sslmode)\n"+
			"Choose one approach:\n"+
			"  1. Connection string: --connection \"postgresql://user@localhost:5432/mydb\"\n"+
			"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n"+
			"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
			sprocgen.ErrInvalidConfig)
	}

	var cfg *sprocgen.ConnectionConfig
	var err error
	switch {
	case connStringFlag != "":
		cfg, err = fromConnectionString(connStringFlag, env)
	case flags.IsEmpty() && env.DATABASE_URL != "":
		cfg, err = fromConnectionString(env.DATABASE_URL, env)
	default:
		cfg, err = fromGranularParams(flags, env, project)
	}
	if err != nil {
		return nil, err
	}

	if flags.Database != "" {
		cfg.Database = flags.Database
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	return cfg, nil
}

func fromConnectionString(connStr string, env *EnvVars) (*sprocgen.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid connection string: %v", sprocgen.ErrInvalidConfig, err)
	}
	if cfg.Password == "" {
		cfg.Password = env.PGPASSWORD
	}
	return cfg, nil
}

// fromGranularParams takes every parameter from the first source that sets
// it: flag, environment variable, sprocgen.yaml, default.
func fromGranularParams(flags *GranularConnFlags, env *EnvVars, project *config.ConnectionConfig) (*sprocgen.ConnectionConfig, error) {
	cfg := &sprocgen.ConnectionConfig{
		Host:             first(flags.Host, env.PGHOST, project.Host, "localhost"),
		Username:         first(flags.Username, env.PGUSER, project.Username, os.Getenv("USER"), os.Getenv("USERNAME")),
		Password:         env.PGPASSWORD,
		Database:         first(flags.Database, env.PGDATABASE, project.Database, "postgres"),
		SSLMode:          first(flags.SSLMode, env.PGSSLMODE, project.SSLMode, "prefer"),
		SSLCert:          project.SSLCert,
		SSLKey:           project.SSLKey,
		SSLRootCert:      project.SSLRootCert,
		AdditionalParams: make(map[string]string),
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid $PGPORT value '%s': must be an integer", sprocgen.ErrInvalidConfig, env.PGPORT)
		}
		cfg.Port = port
	case project.Port != 0:
		cfg.Port = project.Port
	default:
		cfg.Port = 5432
	}

	return cfg, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
