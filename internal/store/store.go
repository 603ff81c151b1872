// Package store reads and writes configuration files. Every write goes to a
// temp file in the destination directory and is renamed into place, so a
// reader never sees a half-written file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// BackupTimeFormat is the timestamp layout used in backup file names.
const BackupTimeFormat = "20060102T150405.000000000Z"

const defaultPerm fs.FileMode = 0644

// FileStore performs file operations on an afero filesystem.
type FileStore struct {
	fs  afero.Fs
	now func() time.Time
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock sets the clock used for backup names.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

// New creates a FileStore on fsys.
func New(fsys afero.Fs, opts ...Option) *FileStore {
	s := &FileStore{fs: fsys, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOS creates a FileStore on the operating system filesystem.
func NewOS(opts ...Option) *FileStore {
	return New(afero.NewOsFs(), opts...)
}

// Read returns the content of path. A missing file is not an error: exists
// is false and data is nil.
func (s *FileStore) Read(path string) (data []byte, exists bool, err error) {
	data, err = afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return data, true, nil
}

// Exists reports whether path exists.
func (s *FileStore) Exists(path string) (bool, error) {
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}

// Backup copies path verbatim to a sibling file named
// <path>.<timestamp>.bak and returns the backup's path.
func (s *FileStore) Backup(path string) (string, error) {
	data, exists, err := s.Read(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("backup %s: %w", path, fs.ErrNotExist)
	}

	backupPath, err := s.backupName(path)
	if err != nil {
		return "", err
	}
	if err := s.WriteAtomic(backupPath, data); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	return backupPath, nil
}

func (s *FileStore) backupName(path string) (string, error) {
	base := path + "." + s.now().UTC().Format(BackupTimeFormat)
	candidate := base + ".bak"
	for i := 1; ; i++ {
		taken, err := s.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i) + ".bak"
	}
}

// WriteAtomic replaces path with data. The parent directory is created if
// needed and an existing file keeps its permissions.
func (s *FileStore) WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	perm := defaultPerm
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")
	if err := s.writeTemp(tmp, data, perm); err != nil {
		s.fs.Remove(tmp) // best-effort cleanup
		return err
	}

	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) writeTemp(tmp string, data []byte, perm fs.FileMode) error {
	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}
