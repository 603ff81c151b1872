package migrate

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/cfgsync/internal/document"
)

// Resolution is the caller's decision for one conflicting key.
type Resolution string

const (
	// Overwrite replaces the destination value with the source value.
	Overwrite Resolution = "overwrite"
	// Keep leaves the destination value in place.
	Keep Resolution = "keep"
	// Skip writes neither value; the key keeps whatever the destination had.
	Skip Resolution = "skip"
)

// ParseResolution parses "overwrite", "keep" or "skip" (case-insensitive).
func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(s))); r {
	case Overwrite, Keep, Skip:
		return r, nil
	default:
		return "", fmt.Errorf("invalid resolution %q: want overwrite, keep or skip", s)
	}
}

// Valid reports whether r is one of the known resolutions.
func (r Resolution) Valid() bool {
	return r == Overwrite || r == Keep || r == Skip
}

// Status is the outcome of a migration call.
type Status string

const (
	StatusCompleted        Status = "completed"
	StatusSkippedConflicts Status = "completed-with-skipped-conflicts"
	StatusPendingInput     Status = "aborted-pending-user-input"
	StatusFailed           Status = "failed"
)

// Conflict is a key present on both sides with differing values.
type Conflict struct {
	Key              string         `json:"key"`
	SourceValue      document.Value `json:"source_value"`
	DestinationValue document.Value `json:"destination_value"`
	Resolution       Resolution     `json:"resolution,omitempty"`
}

// Comparison classifies the keys of two sections.
type Comparison struct {
	Additions []string   `json:"additions"`
	Identical []string   `json:"identical"`
	Conflicts []Conflict `json:"conflicts"`
}

// ConflictKeys returns the keys of all conflicts in plan order.
func (c Comparison) ConflictKeys() []string {
	keys := make([]string, len(c.Conflicts))
	for i, conflict := range c.Conflicts {
		keys[i] = conflict.Key
	}
	return keys
}

// Side describes one end of a migration.
type Side struct {
	Endpoint string `json:"endpoint"`
	Path     string `json:"path"`
	Root     string `json:"root,omitempty"`
	Exists   bool   `json:"exists"`
}

// MergePlan is the side-effect-free result of comparing source and
// destination. It carries snapshots of both documents so applying it does
// not depend on files changing in between.
type MergePlan struct {
	Source      Side `json:"source"`
	Destination Side `json:"destination"`
	Comparison

	sourceSection      *document.Object
	destinationSection *document.Object
	destinationFound   bool
	destination        *document.Object
	destinationRaw     []byte
}

// HasConflicts reports whether any key needs a resolution.
func (p *MergePlan) HasConflicts() bool { return len(p.Conflicts) > 0 }

// MigrationResult is the outcome of applying a plan.
type MigrationResult struct {
	Status          Status           `json:"status"`
	Document        *document.Object `json:"-"`
	Conflicts       []Conflict       `json:"conflicts"`
	BackupPath      string           `json:"backup_path,omitempty"`
	DestinationPath string           `json:"destination_path"`
	Unchanged       bool             `json:"unchanged,omitempty"`
}

// Options controls Apply.
type Options struct {
	CreateBackup bool
}

// DefaultOptions returns the options used when the caller has no opinion.
func DefaultOptions() Options {
	return Options{CreateBackup: true}
}
