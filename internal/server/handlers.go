package server

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/standardbeagle/cfgsync/internal/migrate"
)

// ListEndpointsInput is the input for the list_endpoints tool.
type ListEndpointsInput struct{}

// EndpointInfo describes one known endpoint.
type EndpointInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope"`
	Root        string `json:"root,omitempty"`
	Path        string `json:"path,omitempty"`
	Exists      bool   `json:"exists"`
	Error       string `json:"error,omitempty"` // why the path could not be resolved
}

// ListEndpointsOutput is the output for the list_endpoints tool.
type ListEndpointsOutput struct {
	Endpoints []EndpointInfo `json:"endpoints"`
}

// PlanMigrationInput is the input for the plan_migration tool.
type PlanMigrationInput struct {
	SourceEndpoint      string                        `json:"source_endpoint"`
	DestinationEndpoint string                        `json:"destination_endpoint"`
	Root                *string                       `json:"root,omitempty"`
	Resolutions         map[string]migrate.Resolution `json:"resolutions,omitempty"`
}

// PlanMigrationOutput is the output for the plan_migration tool.
type PlanMigrationOutput struct {
	Source      migrate.Side       `json:"source"`
	Destination migrate.Side       `json:"destination"`
	Additions   []string           `json:"additions"`
	Identical   []string           `json:"identical"`
	Conflicts   []migrate.Conflict `json:"conflicts"`
	Diff        string             `json:"diff,omitempty"` // set once every conflict has a resolution
}

// MigrateConfigInput is the input for the migrate_config tool.
type MigrateConfigInput = migrate.Request

// MigrateConfigOutput is the output for the migrate_config tool.
type MigrateConfigOutput = migrate.Response

func (s *Server) handleListEndpoints(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListEndpointsInput,
) (*mcp.CallToolResult, ListEndpointsOutput, error) {
	out := ListEndpointsOutput{Endpoints: []EndpointInfo{}}
	for _, e := range s.endpoints.Endpoints() {
		info := EndpointInfo{
			Name:        e.Name,
			Description: e.Description,
			Scope:       e.Scope.String(),
			Root:        e.Root,
		}
		path, err := s.endpoints.Resolve(e.Name)
		if err != nil {
			info.Error = err.Error()
			out.Endpoints = append(out.Endpoints, info)
			continue
		}
		info.Path = path
		exists, err := s.files.Exists(path)
		if err != nil {
			info.Error = err.Error()
		}
		info.Exists = exists
		out.Endpoints = append(out.Endpoints, info)
	}
	return nil, out, nil
}

func (s *Server) handlePlanMigration(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input PlanMigrationInput,
) (*mcp.CallToolResult, PlanMigrationOutput, error) {
	var opts []migrate.PlanOption
	if input.Root != nil {
		opts = append(opts, migrate.WithRoot(*input.Root))
	}
	plan, err := s.migrator.Plan(input.SourceEndpoint, input.DestinationEndpoint, opts...)
	if err != nil {
		return nil, PlanMigrationOutput{}, err
	}

	out := PlanMigrationOutput{
		Source:      plan.Source,
		Destination: plan.Destination,
		Additions:   plan.Additions,
		Identical:   plan.Identical,
		Conflicts:   plan.Conflicts,
	}

	diff, err := s.migrator.Preview(plan, input.Resolutions)
	var unresolved *migrate.UnresolvedConflictError
	switch {
	case errors.As(err, &unresolved):
		// No preview until the caller has decided every conflict.
	case err != nil:
		return nil, PlanMigrationOutput{}, err
	default:
		out.Diff = diff
	}
	return nil, out, nil
}

func (s *Server) handleMigrateConfig(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input MigrateConfigInput,
) (*mcp.CallToolResult, MigrateConfigOutput, error) {
	if input.CreateBackup == nil && s.noBackup {
		createBackup := false
		input.CreateBackup = &createBackup
	}

	resp, err := s.migrator.Migrate(input)
	if err != nil {
		s.logger.Warn("migrate_config failed",
			"source", input.SourceEndpoint,
			"destination", input.DestinationEndpoint,
			"error", err,
		)
		return nil, MigrateConfigOutput{}, err
	}
	return nil, *resp, nil
}
