// Package config loads cfgsync settings.
//
// Sources, later overriding earlier:
//  1. <project>/.env (dotenv; never overrides variables already set)
//  2. User config: $XDG_CONFIG_HOME/cfgsync/config.kdl
//  3. Project config: <project>/.cfgsync.kdl
//  4. CFGSYNC_NO_BACKUP, CFGSYNC_LOG_LEVEL, CFGSYNC_LOG_FORMAT
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/standardbeagle/cfgsync/internal/endpoint"
	"github.com/standardbeagle/cfgsync/internal/logging"
)

const NoBackupEnvVar = "CFGSYNC_NO_BACKUP"

// Settings is the merged configuration.
type Settings struct {
	NoBackup     *bool // nil when no source set it
	LogLevel     string
	LogFormat    string
	AllowedRoots []string
	Endpoints    map[string]endpoint.Endpoint
	Sources      []string // files that contributed, in load order
}

// NewSettings creates empty settings.
func NewSettings() *Settings {
	return &Settings{
		Endpoints: make(map[string]endpoint.Endpoint),
	}
}

// Merge combines user and project settings. Project values win for
// scalars set in both and for endpoints of the same name; allowed roots
// accumulate.
func Merge(user, project *Settings) *Settings {
	merged := NewSettings()
	for _, s := range []*Settings{user, project} {
		if s == nil {
			continue
		}
		if s.NoBackup != nil {
			v := *s.NoBackup
			merged.NoBackup = &v
		}
		if s.LogLevel != "" {
			merged.LogLevel = s.LogLevel
		}
		if s.LogFormat != "" {
			merged.LogFormat = s.LogFormat
		}
		merged.AllowedRoots = append(merged.AllowedRoots, s.AllowedRoots...)
		for name, e := range s.Endpoints {
			merged.Endpoints[name] = e
		}
		merged.Sources = append(merged.Sources, s.Sources...)
	}
	return merged
}

// Load loads and merges all settings sources for projectDir.
func Load(projectDir string) (*Settings, error) {
	if projectDir != "" {
		envPath := filepath.Join(projectDir, ".env")
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	user, err := loadFile(UserConfigPath())
	if err != nil {
		return nil, err
	}

	project := NewSettings()
	if projectDir != "" {
		project, err = loadFile(ProjectConfigPath(projectDir))
		if err != nil {
			return nil, err
		}
	}

	s := Merge(user, project)
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv(NoBackupEnvVar); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", NoBackupEnvVar, err)
		}
		s.NoBackup = &b
	}
	if v := os.Getenv(logging.LogLevelEnvVar); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv(logging.LogFormatEnvVar); v != "" {
		s.LogFormat = v
	}
	return nil
}

// BackupsDisabled reports whether no-backup is set to true.
func (s *Settings) BackupsDisabled() bool {
	return s.NoBackup != nil && *s.NoBackup
}

// Logger builds the stderr logger these settings describe.
func (s *Settings) Logger() logging.Logger {
	return logging.NewStderr(s.LogLevel, s.LogFormat)
}

// Registry builds an endpoint registry holding the built-in endpoints plus
// the configured ones, with projectDir used for {project} paths.
func (s *Settings) Registry(projectDir string, opts ...endpoint.Option) (*endpoint.Registry, error) {
	opts = append([]endpoint.Option{
		endpoint.WithProjectDir(projectDir),
		endpoint.WithAllowedRoots(s.AllowedRoots...),
	}, opts...)
	r := endpoint.NewDefault(opts...)

	names := make([]string, 0, len(s.Endpoints))
	for name := range s.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Register(s.Endpoints[name]); err != nil {
			return nil, err
		}
	}
	return r, nil
}
