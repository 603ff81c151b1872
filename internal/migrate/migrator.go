// Package migrate moves configuration entries from one endpoint's file to
// another's without silently discarding anything already at the destination.
//
// Migration is two-phase. Plan reads both files and classifies every source
// key; it never writes. Apply takes a plan plus a resolution for every
// conflicting key, backs up the destination and replaces it atomically.
package migrate

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/standardbeagle/cfgsync/internal/document"
	"github.com/standardbeagle/cfgsync/internal/endpoint"
	"github.com/standardbeagle/cfgsync/internal/logging"
	"github.com/standardbeagle/cfgsync/internal/store"
)

// Resolver turns endpoint names into paths. *endpoint.Registry implements it.
type Resolver interface {
	Resolve(name string) (string, error)
	Lookup(name string) (endpoint.Endpoint, bool)
}

// Migrator plans and applies migrations between endpoints.
type Migrator struct {
	endpoints Resolver
	files     *store.FileStore
	logger    logging.Logger
}

// New creates a Migrator. A nil logger discards all output.
func New(endpoints Resolver, files *store.FileStore, logger logging.Logger) *Migrator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Migrator{
		endpoints: endpoints,
		files:     files,
		logger:    logger,
	}
}

// PlanOption adjusts a single Plan call.
type PlanOption func(*planConfig)

type planConfig struct {
	sourceRoot      *string
	destinationRoot *string
}

// WithRoot compares the section at root on both sides instead of each
// endpoint's own section. An empty root compares whole documents.
func WithRoot(root string) PlanOption {
	return func(c *planConfig) {
		c.sourceRoot = &root
		c.destinationRoot = &root
	}
}

// Plan resolves both endpoints, loads their files and classifies every
// source key against the destination. Nothing is written.
func (m *Migrator) Plan(source, destination string, opts ...PlanOption) (*MergePlan, error) {
	var cfg planConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	src, err := m.side(source, cfg.sourceRoot)
	if err != nil {
		return nil, err
	}
	dst, err := m.side(destination, cfg.destinationRoot)
	if err != nil {
		return nil, err
	}
	if filepath.Clean(src.Path) == filepath.Clean(dst.Path) {
		return nil, &EndpointResolutionError{
			Name:   dst.Endpoint,
			Path:   dst.Path,
			Reason: fmt.Sprintf("destination is the same file as source endpoint %q", src.Endpoint),
		}
	}

	srcRaw, exists, err := m.files.Read(src.Path)
	if err != nil {
		return nil, &EndpointResolutionError{Name: src.Endpoint, Path: src.Path, Reason: err.Error()}
	}
	if !exists {
		return nil, &EndpointResolutionError{Name: src.Endpoint, Path: src.Path, Reason: "config file does not exist"}
	}
	src.Exists = true

	dstRaw, exists, err := m.files.Read(dst.Path)
	if err != nil {
		return nil, &EndpointResolutionError{Name: dst.Endpoint, Path: dst.Path, Reason: err.Error()}
	}
	dst.Exists = exists

	srcDoc, err := parse(src, srcRaw)
	if err != nil {
		return nil, err
	}
	dstDoc, err := parse(dst, dstRaw)
	if err != nil {
		return nil, err
	}

	srcSection, _, err := section(src, srcDoc)
	if err != nil {
		return nil, err
	}
	dstSection, dstFound, err := section(dst, dstDoc)
	if err != nil {
		return nil, err
	}

	plan := &MergePlan{
		Source:             src,
		Destination:        dst,
		Comparison:         Compare(srcSection, dstSection),
		sourceSection:      srcSection,
		destinationSection: dstSection,
		destinationFound:   dstFound,
		destination:        dstDoc,
		destinationRaw:     dstRaw,
	}

	m.logger.Debug("migration planned",
		"source", src.Endpoint,
		"destination", dst.Endpoint,
		"additions", len(plan.Additions),
		"identical", len(plan.Identical),
		"conflicts", len(plan.Conflicts),
	)
	return plan, nil
}

func (m *Migrator) side(name string, root *string) (Side, error) {
	path, err := m.endpoints.Resolve(name)
	if err != nil {
		return Side{}, err
	}
	e, _ := m.endpoints.Lookup(name)
	s := Side{Endpoint: e.Name, Path: path, Root: e.Root}
	if s.Endpoint == "" {
		s.Endpoint = name
	}
	if root != nil {
		s.Root = *root
	}
	return s, nil
}

func parse(s Side, data []byte) (*document.Object, error) {
	if data == nil {
		return document.NewObject(), nil
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, &DocumentParseError{Endpoint: s.Endpoint, Path: s.Path, Err: err}
	}
	return doc, nil
}

func section(s Side, doc *document.Object) (*document.Object, bool, error) {
	sec, found, err := doc.Section(s.Root)
	if err != nil {
		return nil, false, &DocumentParseError{Endpoint: s.Endpoint, Path: s.Path, Err: err}
	}
	if !found {
		return document.NewObject(), false, nil
	}
	return sec, true, nil
}

// Apply writes the result of plan with the given resolutions to the
// destination. Every conflict needs a resolution. When opts.CreateBackup is
// set and the destination exists, it is copied verbatim to a backup
// before anything else is written.
//
// The final document is built from the plan's snapshot, so applying the same
// plan again writes the same content. When that document equals the existing
// destination nothing is backed up or written and the result is marked
// Unchanged.
func (m *Migrator) Apply(plan *MergePlan, resolutions map[string]Resolution, opts Options) (*MigrationResult, error) {
	final, err := build(plan, resolutions)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{
		Status:          StatusCompleted,
		Document:        final,
		Conflicts:       resolvedConflicts(plan.Conflicts, resolutions),
		DestinationPath: plan.Destination.Path,
	}
	for _, c := range result.Conflicts {
		if c.Resolution == Skip {
			result.Status = StatusSkippedConflicts
		}
	}

	log := m.logger.With("destination", plan.Destination.Endpoint, "path", plan.Destination.Path)

	if plan.Destination.Exists && document.Equal(document.ObjectValue(final), document.ObjectValue(plan.destination)) {
		result.Unchanged = true
		log.Info("destination already up to date", "source", plan.Source.Endpoint, "status", result.Status)
		return result, nil
	}

	if opts.CreateBackup {
		exists, err := m.files.Exists(plan.Destination.Path)
		if err != nil {
			return nil, &BackupError{Path: plan.Destination.Path, Err: err}
		}
		if exists {
			backup, err := m.files.Backup(plan.Destination.Path)
			if err != nil {
				log.Error("backup failed", "error", err)
				return nil, &BackupError{Path: plan.Destination.Path, Err: err}
			}
			result.BackupPath = backup
			log.Debug("backup written", "backup", backup)
		}
	}

	if err := m.files.WriteAtomic(plan.Destination.Path, document.Encode(final)); err != nil {
		log.Error("write failed", "error", err)
		return nil, &WriteError{Path: plan.Destination.Path, Err: err}
	}

	log.Info("migration applied",
		"source", plan.Source.Endpoint,
		"status", result.Status,
		"additions", len(plan.Additions),
		"conflicts", len(plan.Conflicts),
		"backup", result.BackupPath,
	)
	return result, nil
}

// Preview returns a unified diff from the destination file as planned to
// the content Apply would write. An empty string means Apply writes nothing.
func (m *Migrator) Preview(plan *MergePlan, resolutions map[string]Resolution) (string, error) {
	final, err := build(plan, resolutions)
	if err != nil {
		return "", err
	}
	if plan.Destination.Exists && document.Equal(document.ObjectValue(final), document.ObjectValue(plan.destination)) {
		return "", nil
	}
	after := document.Encode(final)
	if bytes.Equal(plan.destinationRaw, after) {
		return "", nil
	}
	return unifiedDiff(plan.Destination.Path, plan.destinationRaw, after)
}

func build(plan *MergePlan, resolutions map[string]Resolution) (*document.Object, error) {
	if plan == nil {
		return nil, fmt.Errorf("nil plan")
	}
	merged, err := Merge(plan.sourceSection, plan.destinationSection, plan.Comparison, resolutions)
	if err != nil {
		return nil, err
	}

	final := plan.destination.Clone()
	if !plan.destinationFound && merged.Len() == 0 {
		return final, nil
	}
	if err := final.SetSection(plan.Destination.Root, merged); err != nil {
		return nil, &DocumentParseError{Endpoint: plan.Destination.Endpoint, Path: plan.Destination.Path, Err: err}
	}
	return final, nil
}

func resolvedConflicts(conflicts []Conflict, resolutions map[string]Resolution) []Conflict {
	out := make([]Conflict, len(conflicts))
	for i, c := range conflicts {
		c.Resolution = resolutions[c.Key]
		out[i] = c
	}
	return out
}
