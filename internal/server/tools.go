package server

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all server tools with manually crafted schemas.
// The Go SDK's generated schemas use "type": ["null", "object"] for
// pointers, which strict client validators reject.
func (s *Server) registerTools() {
	// 1. list_endpoints - Known configuration locations
	s.mcpServer.AddTool(
		&mcp.Tool{
			Name:         "list_endpoints",
			Description:  "List the configuration endpoints cfgsync knows about (Claude Desktop, Claude Code, Cursor, Windsurf, Cline, Roo, VS Code and configured ones) with their resolved paths and whether the file exists.",
			InputSchema:  listEndpointsInputSchema,
			OutputSchema: listEndpointsOutputSchema,
		},
		s.wrapListEndpoints,
	)

	// 2. plan_migration - Read-only comparison
	s.mcpServer.AddTool(
		&mcp.Tool{
			Name:         "plan_migration",
			Description:  "Compare the server entries of a source endpoint against a destination endpoint without writing anything. Returns keys that would be added, keys that are identical and conflicting keys with both values. When resolutions cover every conflict, a unified diff of the destination file is included.",
			InputSchema:  planMigrationInputSchema,
			OutputSchema: planMigrationOutputSchema,
		},
		s.wrapPlanMigration,
	)

	// 3. migrate_config - Plan and apply
	s.mcpServer.AddTool(
		&mcp.Tool{
			Name:         "migrate_config",
			Description:  "Copy server entries from a source endpoint into a destination endpoint. Without resolutions, conflicts abort with status aborted-pending-user-input and nothing is written; call again with a resolution (overwrite, keep or skip) for every conflicting key. The destination is backed up first unless create_backup is false.",
			InputSchema:  migrateConfigInputSchema,
			OutputSchema: migrateConfigOutputSchema,
		},
		s.wrapMigrateConfig,
	)
}

// Wrapper handlers that parse JSON manually and call the typed handlers.

func (s *Server) wrapListEndpoints(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, output, err := s.handleListEndpoints(ctx, req, ListEndpointsInput{})
	if err != nil {
		return errorResult(err), nil
	}

	return toCallToolResult(output)
}

func (s *Server) wrapPlanMigration(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PlanMigrationInput
	if err := unmarshalArgs(req, &input); err != nil {
		return nil, err
	}

	_, output, err := s.handlePlanMigration(ctx, req, input)
	if err != nil {
		return errorResult(err), nil
	}

	return toCallToolResult(output)
}

func (s *Server) wrapMigrateConfig(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input MigrateConfigInput
	if err := unmarshalArgs(req, &input); err != nil {
		return nil, err
	}

	_, output, err := s.handleMigrateConfig(ctx, req, input)
	if err != nil {
		return errorResult(err), nil
	}

	return toCallToolResult(output)
}

func unmarshalArgs(req *mcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

// errorResult creates an error CallToolResult.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

// toCallToolResult converts any output to a CallToolResult with JSON text
// and structured content.
func toCallToolResult(output any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(output)
	if err != nil {
		return errorResult(err), nil
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: json.RawMessage(data),
	}, nil
}
