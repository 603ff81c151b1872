// Package endpoint maps symbolic client names ("cursor", "windsurf", ...) to
// the configuration files those clients read.
//
// A Registry is built explicitly and passed to whoever needs it. Resolution
// consults a per-endpoint environment variable first, then the registered
// path template, and refuses any path outside the allowed roots.
package endpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// EnvPrefix prefixes the per-endpoint override variables.
const EnvPrefix = "CFGSYNC_"

// Endpoint is one client configuration location.
type Endpoint struct {
	Name        string
	Description string
	Path        string // template: ~, {project}, $VAR and ${VAR} are expanded
	Root        string // dotted path of the server section, "" for the whole file
	Scope       Scope
}

// Registry resolves endpoint names to paths.
type Registry struct {
	endpoints  map[string]Endpoint
	home       string
	projectDir string
	getenv     func(string) string
	extraRoots []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithHome sets the home directory used for ~ expansion.
func WithHome(dir string) Option {
	return func(r *Registry) { r.home = dir }
}

// WithProjectDir sets the directory used for {project} expansion.
func WithProjectDir(dir string) Option {
	return func(r *Registry) { r.projectDir = dir }
}

// WithEnv sets the environment lookup; os.Getenv by default.
func WithEnv(getenv func(string) string) Option {
	return func(r *Registry) { r.getenv = getenv }
}

// WithAllowedRoots permits resolved paths under the given directories in
// addition to the home and project directories.
func WithAllowedRoots(dirs ...string) Option {
	return func(r *Registry) { r.extraRoots = append(r.extraRoots, dirs...) }
}

// New creates a registry with no endpoints.
func New(opts ...Option) *Registry {
	r := &Registry{
		endpoints: make(map[string]Endpoint),
		getenv:    os.Getenv,
	}
	if home, err := os.UserHomeDir(); err == nil {
		r.home = home
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefault creates a registry holding the built-in endpoints for this OS.
func NewDefault(opts ...Option) *Registry {
	r := New(opts...)
	for _, e := range Defaults(runtime.GOOS) {
		// Built-in entries are always well formed.
		_ = r.Register(e)
	}
	return r
}

// Register adds e, replacing any endpoint of the same name.
func (r *Registry) Register(e Endpoint) error {
	e.Name = normalizeName(e.Name)
	if e.Name == "" {
		return fmt.Errorf("endpoint name is required")
	}
	if strings.TrimSpace(e.Path) == "" {
		return fmt.Errorf("endpoint %q: path is required", e.Name)
	}
	r.endpoints[e.Name] = e
	return nil
}

// Lookup returns the endpoint registered under name.
func (r *Registry) Lookup(name string) (Endpoint, bool) {
	e, ok := r.endpoints[normalizeName(name)]
	return e, ok
}

// Endpoints returns all registered endpoints sorted by name.
func (r *Registry) Endpoints() []Endpoint {
	list := make([]Endpoint, 0, len(r.endpoints))
	for _, e := range r.endpoints {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// ProjectDir returns the project directory, "" when none was configured.
func (r *Registry) ProjectDir() string { return r.projectDir }

// EnvVarName returns the override variable for an endpoint,
// e.g. CFGSYNC_CLAUDE_DESKTOP_CONFIG for "claude-desktop".
func EnvVarName(name string) string {
	n := strings.ToUpper(normalizeName(name))
	n = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(n)
	return EnvPrefix + n + "_CONFIG"
}

// Resolve returns the absolute path for the named endpoint.
func (r *Registry) Resolve(name string) (string, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return "", &ResolutionError{
			Name:       name,
			Reason:     "unknown endpoint",
			Suggestion: r.closest(name),
		}
	}

	tmpl := e.Path
	if override := strings.TrimSpace(r.getenv(EnvVarName(e.Name))); override != "" {
		tmpl = override
	}

	path, err := r.expand(tmpl)
	if err != nil {
		return "", &ResolutionError{Name: e.Name, Path: tmpl, Reason: err.Error()}
	}
	if err := checkPath(path, r.allowedRoots()); err != nil {
		return "", &ResolutionError{Name: e.Name, Path: path, Reason: err.Error()}
	}
	return path, nil
}

// expand substitutes variables before {project} and ~ so a '$' inside the
// project or home directory is never read as a variable.
func (r *Registry) expand(tmpl string) (string, error) {
	var missing []string
	p := os.Expand(tmpl, func(key string) string {
		v := r.lookupEnv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return filepath.ToSlash(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("environment variable %s is not set", strings.Join(missing, ", "))
	}

	if strings.Contains(p, "{project}") {
		if r.projectDir == "" {
			return "", fmt.Errorf("no project directory configured")
		}
		p = strings.ReplaceAll(p, "{project}", filepath.ToSlash(r.projectDir))
	}

	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if r.home == "" {
			return "", fmt.Errorf("home directory is unknown")
		}
		p = filepath.ToSlash(r.home) + p[1:]
	}

	return filepath.Clean(filepath.FromSlash(p)), nil
}

// lookupEnv reads a variable, falling back to the platform defaults for the
// base directories the built-in table refers to.
func (r *Registry) lookupEnv(key string) string {
	if v := r.getenv(key); v != "" {
		return v
	}
	if r.home == "" {
		return ""
	}
	switch key {
	case "XDG_CONFIG_HOME":
		return filepath.Join(r.home, ".config")
	case "APPDATA":
		return filepath.Join(r.home, "AppData", "Roaming")
	}
	return ""
}

func (r *Registry) allowedRoots() []string {
	roots := []string{r.home, r.projectDir}
	for _, key := range []string{"XDG_CONFIG_HOME", "APPDATA"} {
		if v := r.getenv(key); v != "" {
			roots = append(roots, v)
		}
	}
	roots = append(roots, r.extraRoots...)

	var out []string
	for _, root := range roots {
		if root == "" || !filepath.IsAbs(root) {
			continue
		}
		root = filepath.Clean(root)
		if isFilesystemRoot(root) {
			continue
		}
		out = append(out, root)
	}
	return out
}

// closest returns the registered name nearest to name, or "" when nothing is
// close enough to be a plausible typo.
func (r *Registry) closest(name string) string {
	name = normalizeName(name)
	best, bestDist := "", 4
	for known := range r.endpoints {
		d := levenshtein.ComputeDistance(name, known)
		if d < bestDist || (d == bestDist && known < best) {
			best, bestDist = known, d
		}
	}
	return best
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
