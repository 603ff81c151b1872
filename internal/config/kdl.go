package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	kdl "github.com/sblinch/kdl-go"
	"github.com/standardbeagle/cfgsync/internal/endpoint"
)

const (
	ProjectConfigFile = ".cfgsync.kdl"
	UserConfigDir     = "cfgsync"
	UserConfigFile    = "config.kdl"
)

// KDLConfig is the raw KDL structure for unmarshaling.
type KDLConfig struct {
	NoBackup  *bool         `kdl:"no-backup"`
	LogLevel  string        `kdl:"log-level"`
	LogFormat string        `kdl:"log-format"`
	Allow     []string      `kdl:"allow"`
	Endpoints []KDLEndpoint `kdl:"endpoint,multiple"`
}

// KDLEndpoint is an endpoint node:
//
//	endpoint "zed" {
//	    path "~/.config/zed/settings.json"
//	    root "context_servers"
//	}
type KDLEndpoint struct {
	Name        string `kdl:",arg"`
	Path        string `kdl:"path"`
	Root        string `kdl:"root"`
	Description string `kdl:"description"`
	Scope       string `kdl:"scope"`
}

// UserConfigPath returns the path to the user config file.
func UserConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, UserConfigDir, UserConfigFile)
}

// ProjectConfigPath returns the path to the project config file.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFile)
}

// ParseKDL parses KDL settings. Relative allow entries are taken relative
// to baseDir.
func ParseKDL(data string, baseDir string) (*Settings, error) {
	var raw KDLConfig
	if err := kdl.Unmarshal([]byte(data), &raw); err != nil {
		return nil, err
	}

	s := NewSettings()
	s.NoBackup = raw.NoBackup
	s.LogLevel = raw.LogLevel
	s.LogFormat = raw.LogFormat

	for _, dir := range raw.Allow {
		if !filepath.IsAbs(dir) && baseDir != "" {
			dir = filepath.Join(baseDir, dir)
		}
		s.AllowedRoots = append(s.AllowedRoots, filepath.Clean(dir))
	}

	for _, e := range raw.Endpoints {
		if e.Name == "" {
			return nil, fmt.Errorf("endpoint node without a name")
		}
		if e.Path == "" {
			return nil, fmt.Errorf("endpoint %q: path is required", e.Name)
		}
		s.Endpoints[e.Name] = endpoint.Endpoint{
			Name:        e.Name,
			Description: e.Description,
			Path:        e.Path,
			Root:        e.Root,
			Scope:       endpoint.ParseScope(e.Scope),
		}
	}

	return s, nil
}

// loadFile reads a KDL settings file. A missing file yields empty settings.
func loadFile(path string) (*Settings, error) {
	if path == "" {
		return NewSettings(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSettings(), nil
	}
	if err != nil {
		return nil, err
	}

	s, err := ParseKDL(string(data), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s.Sources = append(s.Sources, path)
	return s, nil
}
