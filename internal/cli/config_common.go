package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/sprocgen/internal/config"
	"github.com/vvka-141/sprocgen/internal/db"
	"github.com/vvka-141/sprocgen/internal/retry"
	"github.com/vvka-141/sprocgen/internal/services"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection string
	host       string
	port       int
	username   string
	database   string
	sslMode    string
}

func (f *connectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.connection, "connection", "",
		"PostgreSQL connection string (URI or key=value format).\n"+
			"Mutually exclusive with granular flags (--host, --port, --username, --sslmode).\n"+
			"Alternative: Use SPROCGEN_CONNECTION_STRING or DATABASE_URL environment variable.")
	cmd.Flags().StringVarP(&f.host, "host", "h", "",
		"PostgreSQL server host\n"+
			"Precedence: --host > $PGHOST > sprocgen.yaml > localhost")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0,
		"PostgreSQL server port\n"+
			"Precedence: --port > $PGPORT > sprocgen.yaml > 5432")
	cmd.Flags().StringVarP(&f.username, "username", "U", "",
		"PostgreSQL user (default: $PGUSER or current OS user)")
	cmd.Flags().StringVarP(&f.database, "database", "d", "",
		"Database the routines are loaded into (overrides the connection string database)")
	cmd.Flags().StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")
}

func (f *connectionFlags) granular() *db.GranularConnFlags {
	return &db.GranularConnFlags{
		Host:     f.host,
		Port:     f.port,
		Username: f.username,
		Database: f.database,
		SSLMode:  f.sslMode,
	}
}

// loadProjectConfig loads .env and the project configuration with defaults
// applied. A project without sprocgen.yaml gets the defaults.
func loadProjectConfig(projectDir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	info, err := os.Stat(projectDir)
	if err != nil {
		return nil, fmt.Errorf("%w: project directory: %v", sprocgen.ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: project path %s is not a directory", sprocgen.ErrInvalidConfig, projectDir)
	}

	cfg, err := config.LoadOrDefault(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parsePlaceholderFlags turns repeated --placeholder KEY=value flags into a
// map. A later flag for the same key wins.
func parsePlaceholderFlags(pairs []string) (map[string]string, error) {
	placeholders := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, err := config.ParsePlaceholderFlag(pair)
		if err != nil {
			return nil, err
		}
		placeholders[config.PlaceholderKey(key)] = value
	}
	return placeholders, nil
}

// newBuilder wires the connection of the flags into a services.Builder.
func newBuilder(flags *connectionFlags, projectCfg *config.ProjectConfig, logger sprocgen.Logger) (*services.Builder, error) {
	connConfig, err := resolveConnection(flags.connection, flags.granular(), projectCfg)
	if err != nil {
		return nil, err
	}
	logConnectionVerbose(logger, connConfig)

	connector := db.NewStandardConnector(connConfig,
		db.WithConnectorLogger(logger),
		db.WithConnectRetry(retry.NewDefaultExecutor()),
	)
	return services.NewBuilder(services.PostgresBackends(connector, logger), logger), nil
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger sprocgen.Logger, connConfig *sprocgen.ConnectionConfig) {
	logger.Verbose("Connection resolved: host=%s port=%d user=%s database=%s sslmode=%s",
		connConfig.Host, connConfig.Port, connConfig.Username, connConfig.Database, connConfig.SSLMode)
	if connConfig.SSLRootCert != "" {
		logger.Verbose("SSL root cert: %s", connConfig.SSLRootCert)
	}
}
