package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/internal/render"
	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/keyutil"
	"github.com/issuekit/issuekit/pkg/model"
	"github.com/issuekit/issuekit/pkg/updater"
)

type updateFlags struct {
	assign         string
	unassign       bool
	severity       string
	manualSeverity string
	line           int
	noLine         bool
	resolution     string
	status         string
	plan           string
	effort         float64
	noEffort       bool
	message        string
	author         string
	attrs          []string
	unsetAttrs     []string
}

func newUpdateCmd() *cobra.Command {
	var f updateFlags

	cmd := &cobra.Command{
		Use:   "update <key>",
		Short: "Update issue fields",
		Long: `Update issue fields in one change pass.

Only fields whose value actually changes are recorded. The pass is
attributed to the --as login, or to default_login from the config. If a
field cannot be changed (severity after a manual override) nothing is saved.

Examples:
  issuekit update AX1 --assign emmerik
  issuekit update AX1 --manual-severity MINOR --as simon
  issuekit update AX1 --status RESOLVED --resolution FIXED
  issuekit update AX1 --attr JIRA=FOO-123 --unset-attr legacy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit, err := f.build(cmd)
			if err != nil {
				return err
			}

			client, err := openClient()
			if err != nil {
				return err
			}
			res, err := client.Update(commandContext(cmd), args[0], edit)
			if err != nil {
				if errors.Is(err, errclass.ErrIssueNotFound) {
					return fmt.Errorf("%w\n%s", err, suggestIssues(cmd, client, args[0]))
				}
				return err
			}

			if jsonOutput {
				return outputJSON(res)
			}
			if !res.Changed {
				fmt.Println("No changes.")
				return nil
			}
			fmt.Printf("Updated issue %s\n", res.Issue.Key)
			fmt.Print(render.Change(res.Change))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.assign, "assign", "", "assign to login")
	cmd.Flags().BoolVar(&f.unassign, "unassign", false, "remove the assignee")
	cmd.Flags().StringVar(&f.severity, "severity", "", "set severity (fails after a manual override)")
	cmd.Flags().StringVar(&f.manualSeverity, "manual-severity", "", "set severity manually and lock it")
	cmd.Flags().IntVar(&f.line, "line", 0, "set line")
	cmd.Flags().BoolVar(&f.noLine, "no-line", false, "unset line")
	cmd.Flags().StringVar(&f.resolution, "resolution", "", "set resolution (empty to clear)")
	cmd.Flags().StringVar(&f.status, "status", "", "set status")
	cmd.Flags().StringVar(&f.plan, "plan", "", "set action plan key (empty to clear)")
	cmd.Flags().Float64Var(&f.effort, "effort", 0, "set effort to fix")
	cmd.Flags().BoolVar(&f.noEffort, "no-effort", false, "unset effort to fix")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "set message")
	cmd.Flags().StringVar(&f.author, "author", "", "set author login")
	cmd.Flags().StringArrayVar(&f.attrs, "attr", nil, "set attribute key=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.unsetAttrs, "unset-attr", nil, "remove attribute (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("assign", "unassign")
	cmd.MarkFlagsMutuallyExclusive("severity", "manual-severity")
	cmd.MarkFlagsMutuallyExclusive("line", "no-line")
	cmd.MarkFlagsMutuallyExclusive("effort", "no-effort")
	return cmd
}

// build validates every flag and returns the edit to run inside the change
// pass. Edits are applied in a fixed field order.
func (f *updateFlags) build(cmd *cobra.Command) (func(*updater.Session) error, error) {
	changed := cmd.Flags().Changed
	var steps []func(*updater.Session) error
	add := func(step func(*updater.Session) error) { steps = append(steps, step) }

	if changed("assign") || f.unassign {
		login, err := keyutil.NormalizeLogin(f.assign)
		if err != nil {
			return nil, err
		}
		add(func(s *updater.Session) error { s.Assign(login); return nil })
	}
	if changed("severity") {
		sev, err := model.ParseSeverity(f.severity)
		if err != nil {
			return nil, err
		}
		add(func(s *updater.Session) error {
			_, err := s.SetSeverity(sev)
			return err
		})
	}
	if changed("manual-severity") {
		sev, err := model.ParseSeverity(f.manualSeverity)
		if err != nil {
			return nil, err
		}
		add(func(s *updater.Session) error { s.SetManualSeverity(sev); return nil })
	}
	if changed("line") || f.noLine {
		var line *int
		if !f.noLine {
			line = model.Ptr(f.line)
		}
		add(func(s *updater.Session) error { s.SetLine(line); return nil })
	}
	if changed("resolution") {
		res, err := model.ParseResolution(f.resolution)
		if err != nil {
			return nil, err
		}
		add(func(s *updater.Session) error { s.SetResolution(res); return nil })
	}
	if changed("status") {
		status, err := model.ParseStatus(f.status)
		if err != nil {
			return nil, err
		}
		add(func(s *updater.Session) error { s.SetStatus(status); return nil })
	}
	if changed("plan") {
		plan := f.plan
		add(func(s *updater.Session) error { s.Plan(plan); return nil })
	}
	if changed("effort") || f.noEffort {
		var effort *float64
		if !f.noEffort {
			effort = model.Ptr(f.effort)
		}
		add(func(s *updater.Session) error { s.SetEffortToFix(effort); return nil })
	}
	if changed("message") {
		msg := f.message
		add(func(s *updater.Session) error { s.SetMessage(msg); return nil })
	}
	if changed("author") {
		author, err := keyutil.NormalizeLogin(f.author)
		if err != nil {
			return nil, err
		}
		add(func(s *updater.Session) error { s.SetAuthorLogin(author); return nil })
	}

	attrs, err := parseAttributes(f.attrs)
	if err != nil {
		return nil, err
	}
	unset, err := parseAttributeKeys(f.unsetAttrs)
	if err != nil {
		return nil, err
	}
	for _, a := range append(attrs, unset...) {
		a := a
		add(func(s *updater.Session) error { s.SetAttribute(a.key, a.value); return nil })
	}

	if len(steps) == 0 {
		return nil, errors.New("nothing to update (see issuekit update --help)")
	}

	return func(s *updater.Session) error {
		for _, step := range steps {
			if err := step(s); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
