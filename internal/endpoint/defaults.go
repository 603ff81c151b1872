package endpoint

// Scope tells whether an endpoint lives in the user's home or in a project.
type Scope int

const (
	ScopeUser Scope = iota
	ScopeProject
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeProject:
		return "project"
	default:
		return "unknown"
	}
}

// ParseScope parses a scope string. Anything but "project" is a user scope.
func ParseScope(s string) Scope {
	if s == "project" {
		return ScopeProject
	}
	return ScopeUser
}

// Section roots used by the supported clients.
const (
	RootMCPServers = "mcpServers"
	RootServers    = "servers"
)

// Defaults returns the built-in endpoint table for the given GOOS.
func Defaults(goos string) []Endpoint {
	return []Endpoint{
		{
			Name:        "claude-desktop",
			Description: "Claude Desktop",
			Path:        claudeDesktopPath(goos),
			Root:        RootMCPServers,
		},
		{
			Name:        "claude-code",
			Description: "Claude Code user settings",
			Path:        "~/.claude.json",
			Root:        RootMCPServers,
		},
		{
			Name:        "claude-project",
			Description: "Claude Code project servers (.mcp.json)",
			Path:        "{project}/.mcp.json",
			Root:        RootMCPServers,
			Scope:       ScopeProject,
		},
		{
			Name:        "cursor",
			Description: "Cursor global MCP config",
			Path:        "~/.cursor/mcp.json",
			Root:        RootMCPServers,
		},
		{
			Name:        "cursor-project",
			Description: "Cursor project MCP config",
			Path:        "{project}/.cursor/mcp.json",
			Root:        RootMCPServers,
			Scope:       ScopeProject,
		},
		{
			Name:        "windsurf",
			Description: "Windsurf (Codeium) MCP config",
			Path:        "~/.codeium/windsurf/mcp_config.json",
			Root:        RootMCPServers,
		},
		{
			Name:        "cline",
			Description: "Cline VS Code extension",
			Path:        vscodeGlobalStorage(goos) + "/saoudrizwan.claude-dev/settings/cline_mcp_settings.json",
			Root:        RootMCPServers,
		},
		{
			Name:        "roo",
			Description: "Roo Code VS Code extension",
			Path:        vscodeGlobalStorage(goos) + "/rooveterinaryinc.roo-cline/settings/mcp_settings.json",
			Root:        RootMCPServers,
		},
		{
			Name:        "vscode-project",
			Description: "VS Code workspace MCP config",
			Path:        "{project}/.vscode/mcp.json",
			Root:        RootServers,
			Scope:       ScopeProject,
		},
	}
}

func claudeDesktopPath(goos string) string {
	switch goos {
	case "darwin":
		return "~/Library/Application Support/Claude/claude_desktop_config.json"
	case "windows":
		return "${APPDATA}/Claude/claude_desktop_config.json"
	default:
		return "${XDG_CONFIG_HOME}/Claude/claude_desktop_config.json"
	}
}

func vscodeGlobalStorage(goos string) string {
	switch goos {
	case "darwin":
		return "~/Library/Application Support/Code/User/globalStorage"
	case "windows":
		return "${APPDATA}/Code/User/globalStorage"
	default:
		return "${XDG_CONFIG_HOME}/Code/User/globalStorage"
	}
}
