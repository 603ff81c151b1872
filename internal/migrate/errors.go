package migrate

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/cfgsync/internal/endpoint"
)

// EndpointResolutionError reports an unknown endpoint or an unsafe path.
type EndpointResolutionError = endpoint.ResolutionError

// DocumentParseError reports a file that exists but is not a valid
// configuration document.
type DocumentParseError struct {
	Endpoint string
	Path     string
	Err      error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("parse %s config %s: %v", e.Endpoint, e.Path, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// UnresolvedConflictError reports conflicting keys without a resolution.
type UnresolvedConflictError struct {
	Keys []string
}

func (e *UnresolvedConflictError) Error() string {
	return fmt.Sprintf("no resolution for conflicting keys: %s", strings.Join(e.Keys, ", "))
}

// BackupError reports a failed backup. The destination was not touched.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup of %s failed, destination left unchanged: %v", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }

// WriteError reports a failed write of the destination, which keeps its
// previous content.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s failed, destination left unchanged: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
