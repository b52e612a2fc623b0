package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"sslmode"`
	SSLCert     string `yaml:"sslcert,omitempty"`
	SSLKey      string `yaml:"sslkey,omitempty"`
	SSLRootCert string `yaml:"sslrootcert,omitempty"`
}

// SourceConfig locates the routine sources.
type SourceConfig struct {
	Directory string `yaml:"directory"`
	Extension string `yaml:"extension"`
	Encoding  string `yaml:"encoding"`
}

// WrapperConfig configures the generated data layer.
type WrapperConfig struct {
	Output  string `yaml:"output"`
	Package string `yaml:"package"`
	Type    string `yaml:"type"`
	Runtime string `yaml:"runtime,omitempty"`
}

type ProjectConfig struct {
	Connection       ConnectionConfig  `yaml:"connection"`
	Source           SourceConfig      `yaml:"source"`
	Metadata         string            `yaml:"metadata"`
	Wrapper          WrapperConfig     `yaml:"wrapper"`
	Placeholders     map[string]string `yaml:"placeholders"`
	PlaceholderFiles []string          `yaml:"placeholder_files"`
}

const ConfigFileName = "sprocgen.yaml"

// Load reads the config file of the project in projectDir.
func Load(projectDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", sprocgen.ErrInvalidConfig, configPath, err)
	}
	return &cfg, nil
}

// LoadOrDefault is Load returning an empty config when the project has no config file.
func LoadOrDefault(projectDir string) (*ProjectConfig, error) {
	cfg, err := Load(projectDir)
	if errors.Is(err, ErrConfigNotFound) {
		return &ProjectConfig{}, nil
	}
	return cfg, err
}

// ApplyDefaults fills in unset fields.
func (c *ProjectConfig) ApplyDefaults() {
	if c.Source.Directory == "" {
		c.Source.Directory = "."
	}
	if c.Source.Extension == "" {
		c.Source.Extension = sprocgen.DefaultSourceExtension
	}
	if !strings.HasPrefix(c.Source.Extension, ".") {
		c.Source.Extension = "." + c.Source.Extension
	}
	if c.Source.Encoding == "" {
		c.Source.Encoding = sprocgen.DefaultSourceEncoding
	}
	if c.Metadata == "" {
		c.Metadata = sprocgen.DefaultMetadataFile
	}
	if c.Wrapper.Output == "" {
		c.Wrapper.Output = sprocgen.DefaultWrapperFile
	}
	if c.Wrapper.Package == "" {
		c.Wrapper.Package = sprocgen.DefaultWrapperPackage
	}
	if c.Wrapper.Type == "" {
		c.Wrapper.Type = sprocgen.DefaultWrapperType
	}
}

// Validate checks a config after ApplyDefaults.
func (c *ProjectConfig) Validate() error {
	if c.Source.Extension == "." {
		return fmt.Errorf("%w: source.extension is empty", sprocgen.ErrInvalidConfig)
	}
	if !isIdentifier(c.Wrapper.Package) {
		return fmt.Errorf("%w: wrapper.package %q is not a Go identifier", sprocgen.ErrInvalidConfig, c.Wrapper.Package)
	}
	if !isIdentifier(c.Wrapper.Type) {
		return fmt.Errorf("%w: wrapper.type %q is not a Go identifier", sprocgen.ErrInvalidConfig, c.Wrapper.Type)
	}
	if c.Connection.Port < 0 || c.Connection.Port > 65535 {
		return fmt.Errorf("%w: connection.port %d is out of range", sprocgen.ErrInvalidConfig, c.Connection.Port)
	}
	return nil
}

// Resolve returns path relative to projectDir unless it is absolute.
func Resolve(projectDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectDir, path)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
