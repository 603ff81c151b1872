package endpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolutionError reports an endpoint that could not be turned into a safe
// file path.
type ResolutionError struct {
	Name       string
	Path       string
	Reason     string
	Suggestion string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("endpoint %q: %s", e.Name, e.Reason)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path %s)", e.Path)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", e.Suggestion)
	}
	return msg
}

func isFilesystemRoot(p string) bool {
	return filepath.Dir(p) == p
}

// within reports whether p lies strictly below dir.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func checkPath(p string, roots []string) error {
	if !filepath.IsAbs(p) {
		return fmt.Errorf("path is not absolute")
	}
	if isFilesystemRoot(p) || isFilesystemRoot(filepath.Dir(p)) {
		return fmt.Errorf("path is at the filesystem root")
	}
	for _, root := range roots {
		if within(root, p) {
			return nil
		}
	}
	return fmt.Errorf("path is outside the permitted directories")
}

// ResolveProjectDir returns a safe absolute project directory. An empty dir
// means the working directory. The directory must exist and must not be a
// filesystem root.
func ResolveProjectDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project directory %s: %w", dir, err)
	}
	if isFilesystemRoot(abs) {
		return "", fmt.Errorf("refusing to use filesystem root %s as project directory", abs)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", abs)
	}
	return abs, nil
}
