package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sprocgen/internal/services"
)

// buildFlagValues holds the flags of the commands that talk to the database.
type buildFlagValues struct {
	conn         connectionFlags
	placeholders []string
	dropObsolete bool
	timeout      time.Duration
}

func (f *buildFlagValues) register(cmd *cobra.Command) {
	f.conn.register(cmd)
	cmd.Flags().StringArrayVar(&f.placeholders, "placeholder", nil,
		"Placeholder as KEY=value (can be specified multiple times)\n"+
			"Overrides sprocgen.yaml placeholders and placeholder files\n"+
			"Example: --placeholder APP_SCHEMA=app")
	cmd.Flags().BoolVar(&f.dropObsolete, "drop-obsolete", false,
		"Drop routines from the database whose source file disappeared")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 10*time.Minute,
		"Catastrophic failure protection timeout\n"+
			"Prevents indefinite hangs from network issues or locks")
}

var (
	loadFlags  buildFlagValues
	buildFlags buildFlagValues
)

var loadCmd = &cobra.Command{
	Use:   "load <project_path>",
	Short: "Load routine sources and update their metadata",
	Long: `Load compiles every routine source of the project.

For each source file the load command:
1. Substitutes placeholders (@NAME@ and @table.column%type@)
2. Parses the doc block and resolves the designation
3. Loads the routine into PostgreSQL unless its metadata record is current
4. Reconciles the documented parameters with the catalog

The metadata records are written to the metadata file of the project.
A routine that fails to compile does not stop the others; the command
exits with code 12 after reporting every failure.

Password Authentication:
  There is no password flag. Use $PGPASSWORD, ~/.pgpass or a connection string.

Examples:
  sprocgen load ./db -d mydb
  sprocgen load ./db --connection postgresql://app@localhost/mydb
  sprocgen load ./db -d mydb --placeholder APP_SCHEMA=app --drop-obsolete`,
	Args: RequireProjectPath,
	RunE: runLoad,
}

var wrapperCmd = &cobra.Command{
	Use:   "wrapper <project_path>",
	Short: "Generate the data layer from the metadata file",
	Long: `Wrapper generates the Go data layer from the metadata records saved by
a previous load. No database connection is needed. The output file is only
rewritten when its content changes.

Examples:
  sprocgen wrapper ./db`,
	Args: RequireProjectPath,
	RunE: runWrapper,
}

var buildCmd = &cobra.Command{
	Use:   "build <project_path>",
	Short: "Load routine sources and generate the data layer",
	Long: `Build runs load followed by wrapper. The wrapper is not generated when
any routine fails to compile.

Examples:
  sprocgen build ./db -d mydb
  sprocgen build ./db -d mydb --log-json`,
	Args: RequireProjectPath,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(loadCmd, wrapperCmd, buildCmd)
	loadFlags.register(loadCmd)
	buildFlags.register(buildCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	return runWithBuilder(cmd, args[0], &loadFlags, func(ctx context.Context, b *services.Builder, cfg services.BuildConfig) error {
		_, err := b.Load(ctx, cfg)
		return err
	})
}

func runBuild(cmd *cobra.Command, args []string) error {
	return runWithBuilder(cmd, args[0], &buildFlags, func(ctx context.Context, b *services.Builder, cfg services.BuildConfig) error {
		return b.Build(ctx, cfg)
	})
}

func runWrapper(cmd *cobra.Command, args []string) error {
	projectDir := args[0]

	logger, flush, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer flush()

	projectCfg, err := loadProjectConfig(projectDir)
	if err != nil {
		return err
	}

	builder := services.NewBuilder(nil, logger)
	_, err = builder.Wrapper(services.BuildConfig{ProjectDir: projectDir, Project: projectCfg})
	return err
}

func runWithBuilder(
	cmd *cobra.Command,
	projectDir string,
	flags *buildFlagValues,
	run func(context.Context, *services.Builder, services.BuildConfig) error,
) error {
	logger, flush, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer flush()

	projectCfg, err := loadProjectConfig(projectDir)
	if err != nil {
		return err
	}

	placeholders, err := parsePlaceholderFlags(flags.placeholders)
	if err != nil {
		return err
	}
	if len(placeholders) > 0 {
		logger.Verbose("Command line placeholders override %d value(s)", len(placeholders))
	}

	builder, err := newBuilder(&flags.conn, projectCfg, logger)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, flags.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, builder, services.BuildConfig{
		ProjectDir:   projectDir,
		Project:      projectCfg,
		Placeholders: placeholders,
		DropObsolete: flags.dropObsolete,
	})
}
