package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/standardbeagle/cfgsync/internal/config"
	"github.com/standardbeagle/cfgsync/internal/endpoint"
	"github.com/standardbeagle/cfgsync/internal/logging"
	"github.com/standardbeagle/cfgsync/internal/migrate"
	"github.com/standardbeagle/cfgsync/internal/store"
)

// app holds what every command needs once flags and config are loaded.
type app struct {
	stdout io.Writer
	stderr io.Writer

	projectFlag string
	format      string
	noColor     bool

	settings  *config.Settings
	endpoints *endpoint.Registry
	files     *store.FileStore
	migrator  *migrate.Migrator
	logger    logging.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "cfgsync",
		Short: "Move MCP server configuration between AI clients",
		Long: `cfgsync copies MCP server entries from one client's configuration file
(Claude Desktop, Claude Code, Cursor, Windsurf, Cline, Roo, VS Code) into
another's. Keys that exist on both sides with different values are never
overwritten without an explicit decision, and the destination is backed up
before it is replaced.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.projectFlag, "project", "", "Project directory for project-scoped endpoints (default: working directory)")
	root.PersistentFlags().StringVar(&a.format, "format", formatText, "Output format: text, json or yaml")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newEndpointsCmd(a),
		newPlanCmd(a),
		newMigrateCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup() error {
	switch a.format = strings.ToLower(a.format); a.format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q: want text, json or yaml", a.format)
	}
	if a.noColor {
		color.NoColor = true
	}

	projectDir, err := endpoint.ResolveProjectDir(a.projectFlag)
	if err != nil {
		if a.projectFlag != "" {
			return err
		}
		// Without --project a bad working directory only disables
		// project-scoped endpoints.
		projectDir = ""
	}

	settings, err := config.Load(projectDir)
	if err != nil {
		return err
	}
	a.settings = settings
	a.logger = settings.Logger()
	for _, src := range settings.Sources {
		a.logger.Debug("loaded config", "path", src)
	}

	a.endpoints, err = settings.Registry(projectDir)
	if err != nil {
		return err
	}
	a.files = store.NewOS()
	a.migrator = migrate.New(a.endpoints, a.files, a.logger)
	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.stdout, "cfgsync version %s\n", version)
			return err
		},
	}
}
