package migrate

import (
	"fmt"
)

// Request is a single migrate call as received from a tool invocation.
// Resolutions is omitted on the first call; when conflicts exist the
// response lists them and the caller repeats the call with resolutions.
type Request struct {
	SourceEndpoint      string                `json:"source_endpoint"`
	DestinationEndpoint string                `json:"destination_endpoint"`
	CreateBackup        *bool                 `json:"create_backup,omitempty"`
	Resolutions         map[string]Resolution `json:"resolutions,omitempty"`
	Root                *string               `json:"root,omitempty"`
}

// Response is the outcome of a migrate call.
type Response struct {
	Status          Status     `json:"status"`
	Conflicts       []Conflict `json:"conflicts"`
	Additions       []string   `json:"additions"`
	BackupPath      *string    `json:"backup_path"`
	DestinationPath string     `json:"destination_path"`
	Unchanged       bool       `json:"unchanged,omitempty"`
}

// Migrate plans and, when every conflict has a resolution, applies a
// migration. With conflicts and no resolutions nothing is written and the
// status is aborted-pending-user-input. Resolutions that cover only some
// conflicts fail with UnresolvedConflictError.
//
// On an apply failure the returned response has status failed and the
// error describes the cause.
func (m *Migrator) Migrate(req Request) (*Response, error) {
	var opts []PlanOption
	if req.Root != nil {
		opts = append(opts, WithRoot(*req.Root))
	}
	plan, err := m.Plan(req.SourceEndpoint, req.DestinationEndpoint, opts...)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Conflicts:       plan.Conflicts,
		Additions:       plan.Additions,
		DestinationPath: plan.Destination.Path,
	}

	if plan.HasConflicts() && len(req.Resolutions) == 0 {
		m.logger.Info("migration waiting for resolutions",
			"source", plan.Source.Endpoint,
			"destination", plan.Destination.Endpoint,
			"conflicts", len(plan.Conflicts),
		)
		resp.Status = StatusPendingInput
		return resp, nil
	}

	resolutions, err := normalizeResolutions(req.Resolutions)
	if err != nil {
		resp.Status = StatusFailed
		return resp, err
	}

	applyOpts := DefaultOptions()
	if req.CreateBackup != nil {
		applyOpts.CreateBackup = *req.CreateBackup
	}

	result, err := m.Apply(plan, resolutions, applyOpts)
	if err != nil {
		resp.Status = StatusFailed
		return resp, err
	}

	resp.Status = result.Status
	resp.Conflicts = result.Conflicts
	resp.Unchanged = result.Unchanged
	if result.BackupPath != "" {
		resp.BackupPath = &result.BackupPath
	}
	return resp, nil
}

func normalizeResolutions(in map[string]Resolution) (map[string]Resolution, error) {
	out := make(map[string]Resolution, len(in))
	for key, r := range in {
		parsed, err := ParseResolution(string(r))
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = parsed
	}
	return out, nil
}
