package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/sprocgen/internal/config"
	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/internal/tui"
	"github.com/vvka-141/sprocgen/internal/tui/wizards"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

var initCmd = &cobra.Command{
	Use:   "init <project_path>",
	Short: "Write a default sprocgen.yaml",
	Long: `Init writes a sprocgen.yaml with every setting at its default value into
the project directory. An existing sprocgen.yaml is never overwritten.

On a terminal, init asks for the connection, the project layout and the
placeholders first, starting from the flag values. Use --non-interactive,
SPROCGEN_NON_INTERACTIVE=1 or CI=1 to write the flag values directly.

Examples:
  sprocgen init .
  sprocgen init ./db --package store --non-interactive`,
	Args: RequireProjectPath,
	RunE: runInit,
}

var (
	initPackage        string
	initSource         string
	initNonInteractive bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initPackage, "package", sprocgen.DefaultWrapperPackage, "Package name of the generated data layer")
	initCmd.Flags().StringVar(&initSource, "source", ".", "Directory of the routine sources, relative to the project")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "Skip the setup wizard and write the flag values")
}

func runInit(cmd *cobra.Command, args []string) error {
	projectDir := args[0]

	cfg := &config.ProjectConfig{
		Source:  config.SourceConfig{Directory: initSource},
		Wrapper: config.WrapperConfig{Package: initPackage},
	}
	cfg.ApplyDefaults()

	fsys := filesystem.NewOSFileSystem()
	// Fail before the wizard rather than after it.
	if _, err := checkNoProjectConfig(fsys, projectDir); err != nil {
		return err
	}

	if tui.IsInteractive() && !initNonInteractive {
		res, err := wizards.RunInitWizard(*cfg)
		if err != nil {
			return fmt.Errorf("init wizard failed: %w", err)
		}
		if res.Cancelled {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return nil
		}
		cfg = &res.Config
		cfg.ApplyDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := writeProjectConfig(fsys, projectDir, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	return nil
}

// writeProjectConfig writes cfg as the sprocgen.yaml of projectDir unless
// one exists.
func writeProjectConfig(fsys filesystem.FileSystemProvider, projectDir string, cfg *config.ProjectConfig) (string, error) {
	path, err := checkNoProjectConfig(fsys, projectDir)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", config.ConfigFileName, err)
	}
	if err := fsys.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// checkNoProjectConfig returns the sprocgen.yaml path of projectDir and
// fails if the file exists.
func checkNoProjectConfig(fsys filesystem.FileSystemProvider, projectDir string) (string, error) {
	path := filepath.Join(projectDir, config.ConfigFileName)

	_, err := fsys.Stat(path)
	if err == nil {
		return "", fmt.Errorf("%w: %s already exists", sprocgen.ErrInvalidConfig, path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	return path, nil
}
