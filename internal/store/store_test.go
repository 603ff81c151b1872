package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renameFailFs fails every rename whose target matches.
type renameFailFs struct {
	afero.Fs
	target string
}

func (f renameFailFs) Rename(oldname, newname string) error {
	if newname == f.target {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errors.New("simulated disk error")}
	}
	return f.Fs.Rename(oldname, newname)
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
}

func TestRead_Missing(t *testing.T) {
	s := New(afero.NewMemMapFs())

	data, exists, err := s.Read("/home/u/.cursor/mcp.json")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, data)
}

func TestWriteAtomic_CreatesParentsAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")
	s := NewOS()

	require.NoError(t, s.WriteAtomic(path, []byte(`{"a":1}`)))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, s.WriteAtomic(path, []byte(`{"a":2}`)))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteAtomic_PreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	require.NoError(t, NewOS().WriteAtomic(path, []byte(`{"k":"v"}`)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteAtomic_RenameFailureLeavesDestination(t *testing.T) {
	mem := afero.NewMemMapFs()
	path := "/home/u/.cursor/mcp.json"
	require.NoError(t, afero.WriteFile(mem, path, []byte("original"), 0644))

	s := New(renameFailFs{Fs: mem, target: path})
	err := s.WriteAtomic(path, []byte("replacement"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated disk error")

	got, err := afero.ReadFile(mem, path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	entries, err := afero.ReadDir(mem, filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file %s not cleaned up", e.Name())
	}
}

func TestBackup_CopiesVerbatim(t *testing.T) {
	mem := afero.NewMemMapFs()
	path := "/home/u/.codeium/windsurf/mcp_config.json"
	content := "{\n  // keep my comment\n  \"x\": 1\n}\n"
	require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0644))

	s := New(mem, WithClock(fixedClock))
	backup, err := s.Backup(path)
	require.NoError(t, err)

	assert.Equal(t, path+".20261015T093000.000000000Z.bak", backup)
	got, err := afero.ReadFile(mem, backup)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestBackup_UniqueNames(t *testing.T) {
	mem := afero.NewMemMapFs()
	path := "/home/u/.cursor/mcp.json"
	require.NoError(t, afero.WriteFile(mem, path, []byte("{}"), 0644))

	s := New(mem, WithClock(fixedClock))
	first, err := s.Backup(path)
	require.NoError(t, err)
	second, err := s.Backup(path)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, "-1.bak"))
}

func TestBackup_MissingSource(t *testing.T) {
	s := New(afero.NewMemMapFs())
	_, err := s.Backup("/home/u/none.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBackup_ReadOnlyFilesystem(t *testing.T) {
	mem := afero.NewMemMapFs()
	path := "/home/u/.cursor/mcp.json"
	require.NoError(t, afero.WriteFile(mem, path, []byte("{}"), 0644))

	s := New(afero.NewReadOnlyFs(mem))
	_, err := s.Backup(path)
	require.Error(t, err)

	entries, err := afero.ReadDir(mem, filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
