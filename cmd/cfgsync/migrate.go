package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/standardbeagle/cfgsync/internal/migrate"
)

type migrateOutput struct {
	migrate.Response
	DryRun bool   `json:"dry_run,omitempty"`
	Diff   string `json:"diff,omitempty"`
}

func newMigrateCmd(a *app) *cobra.Command {
	var (
		flags    resolveFlags
		noBackup bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "migrate SOURCE DESTINATION",
		Short: "Copy server entries from SOURCE into DESTINATION",
		Long: `Copy server entries from SOURCE into DESTINATION. Entries only in SOURCE
are added; entries only in DESTINATION are left alone. Every conflicting key
needs a resolution from --keep, --skip or --overwrite. If one is missing,
nothing is written and cfgsync exits with status 2.

Patterns use glob syntax (*, ?, [a-z], {a,b}). When several patterns
match a key, --keep wins over --skip, which wins over --overwrite.

The destination is backed up to <path>.<timestamp>.bak before it is
replaced, unless --no-backup is given or no-backup is set in config.`,
		Example: `  cfgsync migrate cursor claude-desktop
  cfgsync migrate cursor claude-desktop --overwrite github --keep '*'
  cfgsync migrate claude-code cursor-project --dry-run --skip '*'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, resolutions, err := a.planAndResolve(cmd, &flags, args[0], args[1])
			if err != nil {
				return err
			}

			out := migrateOutput{Response: migrate.Response{
				Conflicts:       plan.Conflicts,
				Additions:       plan.Additions,
				DestinationPath: plan.Destination.Path,
			}}

			var missing []string
			for _, c := range plan.Conflicts {
				if c.Resolution == "" {
					missing = append(missing, c.Key)
				}
			}
			if len(missing) > 0 {
				out.Status = migrate.StatusPendingInput
				if done, err := a.renderData(out); done {
					if err != nil {
						return err
					}
				} else {
					a.printPlan(plan)
					conflictColor.Fprintf(a.stdout, "resolve with --keep, --skip or --overwrite and run again\n")
				}
				return &exitError{code: exitPendingInput, err: &migrate.UnresolvedConflictError{Keys: missing}}
			}

			if dryRun {
				diff, err := a.migrator.Preview(plan, resolutions)
				if err != nil {
					return err
				}
				out.Status = migrate.StatusCompleted
				for _, r := range resolutions {
					if r == migrate.Skip {
						out.Status = migrate.StatusSkippedConflicts
					}
				}
				out.DryRun = true
				out.Diff = diff
				if done, err := a.renderData(out); done {
					return err
				}
				a.printPlan(plan)
				a.printDiff(diff)
				return nil
			}

			opts := migrate.DefaultOptions()
			if noBackup || a.settings.BackupsDisabled() {
				opts.CreateBackup = false
			}
			result, err := a.migrator.Apply(plan, resolutions, opts)
			if err != nil {
				return err
			}

			out.Status = result.Status
			out.Conflicts = result.Conflicts
			out.Unchanged = result.Unchanged
			if result.BackupPath != "" {
				out.BackupPath = &result.BackupPath
			}
			if done, err := a.renderData(out); done {
				return err
			}
			a.printPlan(plan)
			a.printResult(result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not back up the destination before writing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the diff that would be written without writing it")
	return cmd
}

func (a *app) printResult(r *migrate.MigrationResult) {
	status := addColor
	if r.Status == migrate.StatusSkippedConflicts {
		status = conflictColor
	}
	status.Fprintf(a.stdout, "%s\n", r.Status)
	if r.Unchanged {
		fmt.Fprintf(a.stdout, "unchanged: %s\n", r.DestinationPath)
		return
	}
	if r.BackupPath != "" {
		fmt.Fprintf(a.stdout, "backup: %s\n", r.BackupPath)
	}
	fmt.Fprintf(a.stdout, "wrote:  %s\n", r.DestinationPath)
}
