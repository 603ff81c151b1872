package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/standardbeagle/cfgsync/internal/endpoint"
	"github.com/standardbeagle/cfgsync/internal/logging"
	"github.com/standardbeagle/cfgsync/internal/migrate"
	"github.com/standardbeagle/cfgsync/internal/store"
)

const serverName = "cfgsync"

// Version is reported to MCP clients. Set at build time.
var Version = "0.1.0"

// Config holds what the server needs to serve migrations.
type Config struct {
	Endpoints *endpoint.Registry
	Files     *store.FileStore
	Logger    logging.Logger
	// NoBackup disables backups for calls that leave create_backup unset.
	NoBackup bool
}

// Server exposes endpoint listing, planning and migration as MCP tools.
type Server struct {
	mcpServer *mcp.Server
	endpoints *endpoint.Registry
	files     *store.FileStore
	migrator  *migrate.Migrator
	noBackup  bool
	logger    logging.Logger
}

// New creates a Server from cfg.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	files := cfg.Files
	if files == nil {
		files = store.NewOS()
	}

	s := &Server{
		endpoints: cfg.Endpoints,
		files:     files,
		migrator:  migrate.New(cfg.Endpoints, files, logger),
		noBackup:  cfg.NoBackup,
		logger:    logger,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: Version,
		},
		&mcp.ServerOptions{
			Capabilities: &mcp.ServerCapabilities{
				Tools: &mcp.ToolCapabilities{},
			},
		},
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// RunStdio runs the server using stdio transport.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Debug("cfgsync server running on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP runs the server using HTTP/SSE transport until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)

	sseHandler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/", sseHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("cfgsync server running", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// CallTool calls a tool directly (for testing purposes).
func (s *Server) CallTool(ctx context.Context, toolName string, args map[string]any) (any, error) {
	switch toolName {
	case "list_endpoints":
		_, result, err := s.handleListEndpoints(ctx, nil, ListEndpointsInput{})
		return result, err

	case "plan_migration":
		input := PlanMigrationInput{
			SourceEndpoint:      getStringArg(args, "source_endpoint"),
			DestinationEndpoint: getStringArg(args, "destination_endpoint"),
			Root:                getStringPtrArg(args, "root"),
			Resolutions:         getResolutionsArg(args, "resolutions"),
		}
		_, result, err := s.handlePlanMigration(ctx, nil, input)
		return result, err

	case "migrate_config":
		input := MigrateConfigInput{
			SourceEndpoint:      getStringArg(args, "source_endpoint"),
			DestinationEndpoint: getStringArg(args, "destination_endpoint"),
			CreateBackup:        getBoolPtrArg(args, "create_backup"),
			Resolutions:         getResolutionsArg(args, "resolutions"),
			Root:                getStringPtrArg(args, "root"),
		}
		_, result, err := s.handleMigrateConfig(ctx, nil, input)
		return result, err

	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func getStringArg(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getStringPtrArg(args map[string]any, key string) *string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

func getBoolPtrArg(args map[string]any, key string) *bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return &b
		}
	}
	return nil
}

func getResolutionsArg(args map[string]any, key string) map[string]migrate.Resolution {
	v, ok := args[key]
	if !ok {
		return nil
	}
	result := make(map[string]migrate.Resolution)
	switch m := v.(type) {
	case map[string]string:
		for k, r := range m {
			result[k] = migrate.Resolution(r)
		}
	case map[string]migrate.Resolution:
		for k, r := range m {
			result[k] = r
		}
	case map[string]any:
		for k, r := range m {
			if s, ok := r.(string); ok {
				result[k] = migrate.Resolution(s)
			}
		}
	}
	return result
}
