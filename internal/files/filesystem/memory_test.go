package filesystem

import (
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_Walk(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")
	mfs.AddFile("psql/tst_b.psql", "b")
	mfs.AddFile("psql/tst_a.psql", "a")
	mfs.AddFile("sprocgen.yaml", "source: {}")

	dir, err := mfs.Open("/test/project")
	require.NoError(t, err)

	var files, dirs []string
	err = dir.Walk(func(file File, err error) error {
		require.NoError(t, err)
		if file.Info().IsDir() {
			dirs = append(dirs, file.RelativePath())
		} else {
			files = append(files, file.RelativePath())
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"psql/tst_a.psql", "psql/tst_b.psql", "sprocgen.yaml"}, files)
	assert.Equal(t, []string{".", "psql"}, dirs)
}

func TestMemoryFileSystem_WalkSubdirectory(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")
	mfs.AddFile("psql/users/tst_a.psql", "a")
	mfs.AddFile("psql2/tst_b.psql", "b")

	dir, err := mfs.Open("psql")
	require.NoError(t, err)
	assert.Equal(t, "/test/project/psql", dir.Path())

	var files []string
	require.NoError(t, dir.Walk(func(file File, err error) error {
		if !file.Info().IsDir() {
			files = append(files, file.RelativePath())
		}
		return nil
	}))
	assert.Equal(t, []string{"users/tst_a.psql"}, files)
}

func TestMemoryFileSystem_WalkStopsOnError(t *testing.T) {
	mfs := NewMemoryFileSystem("/p")
	mfs.AddFile("a.psql", "a")
	mfs.AddFile("b.psql", "b")

	dir, err := mfs.Open("/p")
	require.NoError(t, err)

	stop := errors.New("stop")
	err = dir.Walk(func(file File, err error) error {
		if file.RelativePath() == "a.psql" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)

	err = dir.Walk(func(File, error) error { panic("boom") })
	assert.ErrorContains(t, err, "panicked")
}

func TestMemoryFileSystem_ReadFileAndStat(t *testing.T) {
	mfs := NewMemoryFileSystem("/test/project")
	modTime := time.Unix(1700000000, 0)
	mfs.AddFileWithTime("root.psql", "select 1;", modTime)

	content, err := mfs.ReadFile("/test/project/root.psql")
	require.NoError(t, err)
	assert.Equal(t, "select 1;", string(content))

	info, err := mfs.Stat("root.psql")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, "root.psql", info.Name())
	assert.Equal(t, int64(9), info.Size())
	assert.True(t, modTime.Equal(info.ModTime()))

	info, err = mfs.Stat("/test/project")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = mfs.ReadFile("missing.psql")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = mfs.Stat("missing.psql")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = mfs.Open("missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = mfs.Open("root.psql")
	assert.Error(t, err)
	_, err = mfs.ReadFile("/test")
	assert.Error(t, err)
}

func TestMemoryFileSystem_WriteFileAndRemove(t *testing.T) {
	mfs := NewMemoryFileSystem("/p")

	data := []byte("package datalayer\n")
	require.NoError(t, mfs.WriteFile("datalayer/datalayer_gen.go", data))
	data[0] = 'X'

	content, err := mfs.ReadFile("/p/datalayer/datalayer_gen.go")
	require.NoError(t, err)
	assert.Equal(t, "package datalayer\n", string(content))

	info, err := mfs.Stat("/p/datalayer")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Error(t, mfs.WriteFile("datalayer", []byte("x")))

	mfs.Remove("datalayer/datalayer_gen.go")
	_, err = mfs.Stat("datalayer/datalayer_gen.go")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemoryFileSystem_ConcurrentAccess(t *testing.T) {
	mfs := NewMemoryFileSystem("/p")
	mfs.AddFile("a.psql", "a")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = mfs.ReadFile("a.psql")
		}()
		go func() {
			defer wg.Done()
			_ = mfs.WriteFile("out.json", []byte("{}"))
		}()
	}
	wg.Wait()

	content, err := mfs.ReadFile("out.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))
}
