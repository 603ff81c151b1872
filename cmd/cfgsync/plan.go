package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/standardbeagle/cfgsync/internal/migrate"
)

// resolveFlags collects --keep, --skip and --overwrite patterns.
type resolveFlags struct {
	root      string
	rootSet   bool
	keep      []string
	skip      []string
	overwrite []string
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", `Compare this dotted section on both sides instead of each endpoint's server section ("" for whole files)`)
	cmd.Flags().StringArrayVar(&f.keep, "keep", nil, "Keep the destination value for conflicting keys matching PATTERN (repeatable)")
	cmd.Flags().StringArrayVar(&f.skip, "skip", nil, "Skip conflicting keys matching PATTERN (repeatable)")
	cmd.Flags().StringArrayVar(&f.overwrite, "overwrite", nil, "Overwrite conflicting keys matching PATTERN with the source value (repeatable)")
}

// rules returns keep rules first, then skip, then overwrite, so a key
// matched by several patterns is never overwritten.
func (f *resolveFlags) rules() ([]migrate.Rule, error) {
	var rules []migrate.Rule
	for _, group := range []struct {
		resolution migrate.Resolution
		patterns   []string
	}{
		{migrate.Keep, f.keep},
		{migrate.Skip, f.skip},
		{migrate.Overwrite, f.overwrite},
	} {
		for _, p := range group.patterns {
			rule, err := migrate.NewRule(group.resolution, p)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (f *resolveFlags) planOptions() []migrate.PlanOption {
	if !f.rootSet {
		return nil
	}
	return []migrate.PlanOption{migrate.WithRoot(f.root)}
}

// planAndResolve plans source -> destination and matches the conflicts
// against the flag rules. Matched conflicts carry their resolution.
func (a *app) planAndResolve(cmd *cobra.Command, f *resolveFlags, source, destination string) (*migrate.MergePlan, map[string]migrate.Resolution, error) {
	f.rootSet = cmd.Flags().Changed("root")

	rules, err := f.rules()
	if err != nil {
		return nil, nil, err
	}
	plan, err := a.migrator.Plan(source, destination, f.planOptions()...)
	if err != nil {
		return nil, nil, err
	}
	resolutions, err := migrate.MatchResolutions(plan.Conflicts, rules)
	if err != nil {
		return nil, nil, err
	}
	for i := range plan.Conflicts {
		plan.Conflicts[i].Resolution = resolutions[plan.Conflicts[i].Key]
	}
	return plan, resolutions, nil
}

type planOutput struct {
	*migrate.MergePlan
	Diff string `json:"diff,omitempty"`
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		flags    resolveFlags
		showDiff bool
	)

	cmd := &cobra.Command{
		Use:   "plan SOURCE DESTINATION",
		Short: "Show what migrating SOURCE into DESTINATION would change",
		Long: `Compare the server entries of SOURCE with DESTINATION without writing
anything. Keys are listed as additions (+), identical (=) or conflicts (!).`,
		Example: `  cfgsync plan cursor claude-desktop
  cfgsync plan cursor claude-desktop --overwrite 'github*' --keep '*' --diff`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, resolutions, err := a.planAndResolve(cmd, &flags, args[0], args[1])
			if err != nil {
				return err
			}

			out := planOutput{MergePlan: plan}
			if showDiff {
				diff, err := a.migrator.Preview(plan, resolutions)
				var unresolved *migrate.UnresolvedConflictError
				switch {
				case errors.As(err, &unresolved):
					a.logger.Warn("diff needs a resolution for every conflict", "keys", unresolved.Keys)
				case err != nil:
					return err
				default:
					out.Diff = diff
				}
			}

			if done, err := a.renderData(out); done {
				return err
			}
			a.printPlan(plan)
			if showDiff && out.Diff != "" {
				a.printDiff(out.Diff)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show a unified diff of the destination once every conflict has a resolution")
	return cmd
}
