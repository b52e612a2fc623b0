package routine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sprocgen/internal/files/filesystem"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

func TestReadSource(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/project")
	modTime := time.Unix(1700000000, 0)
	fs.AddFileWithTime("psql/tst_user.psql", "line1\r\nline2\n", modTime)

	src, err := ReadSource(fs, "/project/psql/tst_user.psql", "")
	require.NoError(t, err)

	assert.Equal(t, "/project/psql/tst_user.psql", src.Path)
	assert.Equal(t, "utf-8", src.Encoding)
	assert.Equal(t, []string{"line1", "line2", ""}, src.Lines)
	assert.Equal(t, "tst_user", src.Name)
	assert.Equal(t, int64(1700000000), src.ModTime)
	assert.Equal(t, "/project/psql", src.Dir())
}

func TestReadSource_Decodes(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/project")
	fs.AddFile("tst_latin.psql", "select 'caf\xe9';")

	src, err := ReadSource(fs, "/project/tst_latin.psql", "windows-1252")
	require.NoError(t, err)

	assert.Equal(t, []string{"select 'café';"}, src.Lines)
}

func TestReadSource_Errors(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/project")
	fs.AddFile("tst_user.psql", "select 1;")

	tests := []struct {
		name     string
		path     string
		encoding string
		wantKind error
	}{
		{"missing", "/project/tst_missing.psql", "", sprocgen.ErrSourceMissing},
		{"unknown encoding", "/project/tst_user.psql", "no-such-encoding", sprocgen.ErrSourceUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSource(fs, tt.path, tt.encoding)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)

			var compileErr *sprocgen.CompileError
			require.True(t, errors.As(err, &compileErr))
			assert.Equal(t, tt.path, compileErr.Path)
		})
	}
}

func TestID(t *testing.T) {
	assert.Equal(t, ID("tst_user"), ID("TST_User"))
	assert.NotEqual(t, ID("tst_user"), ID("tst_users"))
	assert.Equal(t, uint8(5), uint8(ID("tst_user").Version()))
}
