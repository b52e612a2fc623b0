package cli

import (
	"os"

	"github.com/vvka-141/sprocgen/internal/config"
	"github.com/vvka-141/sprocgen/internal/db"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// ConnectionStringEnv names the variable read when --connection is not given.
const ConnectionStringEnv = "SPROCGEN_CONNECTION_STRING"

// connectionStringFromEnv returns the first non-empty connection string from
// SPROCGEN_CONNECTION_STRING or DATABASE_URL environment variables.
func connectionStringFromEnv() string {
	if s := os.Getenv(ConnectionStringEnv); s != "" {
		return s
	}
	return os.Getenv("DATABASE_URL")
}

// resolveConnection resolves the connection from the --connection flag or
// its environment fallback, the granular flags, the PostgreSQL environment
// variables and the connection section of sprocgen.yaml.
func resolveConnection(
	connStringFlag string,
	granularFlags *db.GranularConnFlags,
	projectConfig *config.ProjectConfig,
) (*sprocgen.ConnectionConfig, error) {
	connString := connStringFlag
	if connString == "" && granularFlags.IsEmpty() {
		connString = connectionStringFromEnv()
	}

	var project *config.ConnectionConfig
	if projectConfig != nil {
		project = &projectConfig.Connection
	}

	return db.ResolveConnectionParams(connString, granularFlags, db.LoadFromEnvironment(), project)
}
