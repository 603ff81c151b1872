package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/standardbeagle/cfgsync/internal/endpoint"
)

type endpointRow struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope"`
	Root        string `json:"root,omitempty"`
	Path        string `json:"path,omitempty"`
	EnvVar      string `json:"env_var"`
	Exists      bool   `json:"exists"`
	Error       string `json:"error,omitempty"`
}

func newEndpointsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "endpoints",
		Aliases: []string{"ls"},
		Short:   "List known configuration endpoints and their paths",
		Long: `List every endpoint cfgsync can read or write, with the path it resolves
to on this machine. Set CFGSYNC_<NAME>_CONFIG to point an endpoint at a
different file, e.g. CFGSYNC_CLAUDE_DESKTOP_CONFIG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEndpoints()
		},
	}
}

func (a *app) endpointRows() []endpointRow {
	rows := []endpointRow{}
	for _, e := range a.endpoints.Endpoints() {
		row := endpointRow{
			Name:        e.Name,
			Description: e.Description,
			Scope:       e.Scope.String(),
			Root:        e.Root,
			EnvVar:      endpoint.EnvVarName(e.Name),
		}
		path, err := a.endpoints.Resolve(e.Name)
		if err != nil {
			row.Error = err.Error()
			rows = append(rows, row)
			continue
		}
		row.Path = path
		if row.Exists, err = a.files.Exists(path); err != nil {
			row.Error = err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

func (a *app) runEndpoints() error {
	rows := a.endpointRows()
	if done, err := a.renderData(rows); done {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSCOPE\tSTATUS\tPATH")
	for _, r := range rows {
		status, path := "missing", r.Path
		switch {
		case r.Error != "":
			status, path = "error", r.Error
		case r.Exists:
			status = "exists"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Scope, status, path)
	}
	return tw.Flush()
}
