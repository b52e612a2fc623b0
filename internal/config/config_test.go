package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
}

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `connection:
  host: myhost
  port: 5433
  username: myuser
  database: mydb
  sslmode: require
  sslrootcert: /path/ca.crt

source:
  directory: lib/psql
  extension: .sql
  encoding: windows-1252

metadata: build/routines.json

wrapper:
  output: internal/store/store_gen.go
  package: store
  type: Store

placeholders:
  "@app.schema@": app
  MAX_USERS: "100"

placeholder_files:
  - placeholders.env
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "myhost", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "myuser", cfg.Connection.Username)
	assert.Equal(t, "mydb", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "/path/ca.crt", cfg.Connection.SSLRootCert)
	assert.Equal(t, SourceConfig{Directory: "lib/psql", Extension: ".sql", Encoding: "windows-1252"}, cfg.Source)
	assert.Equal(t, "build/routines.json", cfg.Metadata)
	assert.Equal(t, WrapperConfig{Output: "internal/store/store_gen.go", Package: "store", Type: "Store"}, cfg.Wrapper)
	assert.Equal(t, map[string]string{"@app.schema@": "app", "MAX_USERS": "100"}, cfg.Placeholders)
	assert.Equal(t, []string{"placeholders.env"}, cfg.PlaceholderFiles)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "{{invalid")

	cfg, err := Load(dir)
	assert.ErrorIs(t, err, sprocgen.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestApplyDefaults(t *testing.T) {
	var cfg ProjectConfig
	cfg.ApplyDefaults()

	assert.Equal(t, ".", cfg.Source.Directory)
	assert.Equal(t, sprocgen.DefaultSourceExtension, cfg.Source.Extension)
	assert.Equal(t, sprocgen.DefaultSourceEncoding, cfg.Source.Encoding)
	assert.Equal(t, sprocgen.DefaultMetadataFile, cfg.Metadata)
	assert.Equal(t, sprocgen.DefaultWrapperFile, cfg.Wrapper.Output)
	assert.Equal(t, sprocgen.DefaultWrapperPackage, cfg.Wrapper.Package)
	assert.Equal(t, sprocgen.DefaultWrapperType, cfg.Wrapper.Type)
	require.NoError(t, cfg.Validate())

	cfg = ProjectConfig{Source: SourceConfig{Extension: "pgsql"}}
	cfg.ApplyDefaults()
	assert.Equal(t, ".pgsql", cfg.Source.Extension)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ProjectConfig)
	}{
		{"package not an identifier", func(c *ProjectConfig) { c.Wrapper.Package = "data-layer" }},
		{"type starts with a digit", func(c *ProjectConfig) { c.Wrapper.Type = "1Store" }},
		{"port out of range", func(c *ProjectConfig) { c.Connection.Port = 70000 }},
		{"extension only a dot", func(c *ProjectConfig) { c.Source.Extension = "." }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg ProjectConfig
			cfg.ApplyDefaults()
			tt.modify(&cfg)

			assert.ErrorIs(t, cfg.Validate(), sprocgen.ErrInvalidConfig)
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("project", "routines"), Resolve("project", "routines"))

	abs := filepath.Join(t.TempDir(), "routines")
	assert.Equal(t, abs, Resolve("project", abs))
}
