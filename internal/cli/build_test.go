package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sprocgen/internal/config"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

func resetLoadFlags() {
	loadFlags = buildFlagValues{timeout: time.Minute}
}

func TestCommands_ArgsValidation(t *testing.T) {
	for _, cmd := range []*struct {
		name string
		args func([]string) error
	}{
		{"load", func(a []string) error { return loadCmd.Args(loadCmd, a) }},
		{"wrapper", func(a []string) error { return wrapperCmd.Args(wrapperCmd, a) }},
		{"build", func(a []string) error { return buildCmd.Args(buildCmd, a) }},
		{"init", func(a []string) error { return initCmd.Args(initCmd, a) }},
	} {
		t.Run(cmd.name, func(t *testing.T) {
			assert.Error(t, cmd.args(nil))
			assert.Equal(t, sprocgen.ExitUsageError, sprocgen.ExitCodeForError(cmd.args([]string{"a", "b"})))
			assert.NoError(t, cmd.args([]string{"./db"}))
		})
	}
}

func TestRunLoad_NonexistentPath(t *testing.T) {
	resetLoadFlags()

	err := runLoad(loadCmd, []string{"/nonexistent/path/abc123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sprocgen.ErrInvalidConfig)
}

func TestRunLoad_InvalidPlaceholder(t *testing.T) {
	resetLoadFlags()
	loadFlags.placeholders = []string{"=value"}

	err := runLoad(loadCmd, []string{t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, sprocgen.ExitConfigError, sprocgen.ExitCodeForError(err))
}

func TestRunLoad_ConflictingConnectionFlags(t *testing.T) {
	resetLoadFlags()
	loadFlags.conn.connection = "postgresql://app@localhost/mydb"
	loadFlags.conn.host = "otherhost"

	err := runLoad(loadCmd, []string{t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, sprocgen.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "cannot specify both")
}

func TestRunLoad_InvalidConfigFile(t *testing.T) {
	resetLoadFlags()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("wrapper:\n  package: not-an-identifier\n"), 0o644))

	err := runLoad(loadCmd, []string{dir})
	require.Error(t, err)
	assert.Equal(t, sprocgen.ExitConfigError, sprocgen.ExitCodeForError(err))
}

func TestRunWrapper_EmptyProject(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runWrapper(wrapperCmd, []string{dir}))

	data, err := os.ReadFile(filepath.Join(dir, sprocgen.DefaultWrapperFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package "+sprocgen.DefaultWrapperPackage)
	assert.Contains(t, string(data), "type "+sprocgen.DefaultWrapperType+" struct")
}

func TestRunWrapper_InvalidMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sprocgen.DefaultMetadataFile), []byte("{not json"), 0o644))

	err := runWrapper(wrapperCmd, []string{dir})
	require.Error(t, err)
}

func TestParsePlaceholderFlags(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "none", pairs: nil, want: map[string]string{}},
		{
			name:  "normalized keys",
			pairs: []string{"APP_SCHEMA=app", "@Audit@=audit"},
			want:  map[string]string{"@app_schema@": "app", "@audit@": "audit"},
		},
		{
			name:  "later wins",
			pairs: []string{"APP_SCHEMA=one", "app_schema=two"},
			want:  map[string]string{"@app_schema@": "two"},
		},
		{
			name:  "value keeps equals signs",
			pairs: []string{"FILTER=a=b"},
			want:  map[string]string{"@filter@": "a=b"},
		},
		{name: "missing equals", pairs: []string{"APP_SCHEMA"}, wantErr: true},
		{name: "empty key", pairs: []string{"=app"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePlaceholderFlags(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, sprocgen.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("defaults without config file", func(t *testing.T) {
		cfg, err := loadProjectConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, sprocgen.DefaultSourceExtension, cfg.Source.Extension)
		assert.Equal(t, sprocgen.DefaultMetadataFile, cfg.Metadata)
		assert.Equal(t, sprocgen.DefaultWrapperType, cfg.Wrapper.Type)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := loadProjectConfig(path)
		assert.ErrorIs(t, err, sprocgen.ErrInvalidConfig)
	})

	t.Run("config values kept", func(t *testing.T) {
		dir := t.TempDir()
		yamlText := "source:\n  extension: sql\nwrapper:\n  package: store\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(yamlText), 0o644))

		cfg, err := loadProjectConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, ".sql", cfg.Source.Extension)
		assert.Equal(t, "store", cfg.Wrapper.Package)
	})
}
