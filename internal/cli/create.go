package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/pkg/color"
	"github.com/issuekit/issuekit/pkg/issuekit"
	"github.com/issuekit/issuekit/pkg/model"
)

func newCreateCmd() *cobra.Command {
	var (
		opts     issuekit.CreateOptions
		severity string
		line     int
		effort   float64
		attrs    []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new issue",
		Long: `Create a new open issue.

Examples:
  issuekit create --rule go:S1234 --component main.go --message "remove unused variable"
  issuekit create --rule go:S1 --severity CRITICAL --line 42 --attr JIRA=FOO-123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if severity != "" {
				sev, err := model.ParseSeverity(severity)
				if err != nil {
					return err
				}
				opts.Severity = sev
			}
			if cmd.Flags().Changed("line") {
				opts.Line = model.Ptr(line)
			}
			if cmd.Flags().Changed("effort") {
				opts.EffortToFix = model.Ptr(effort)
			}
			parsed, err := parseAttributes(attrs)
			if err != nil {
				return err
			}
			if len(parsed) > 0 {
				opts.Attributes = make(map[string]string, len(parsed))
				for _, a := range parsed {
					opts.Attributes[a.key] = *a.value
				}
			}

			client, err := openClient()
			if err != nil {
				return err
			}
			issue, err := client.Create(commandContext(cmd), opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(issue)
			}
			fmt.Printf("Created issue %s\n", color.IssueKey(issue.Key))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "", "issue key (generated when empty)")
	cmd.Flags().StringVar(&opts.Rule, "rule", "", "rule key")
	cmd.Flags().StringVar(&opts.Component, "component", "", "component the issue is on")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "issue message")
	cmd.Flags().StringVar(&severity, "severity", "", "severity (INFO, MINOR, MAJOR, CRITICAL, BLOCKER)")
	cmd.Flags().IntVar(&line, "line", 0, "line number")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "assignee login")
	cmd.Flags().StringVar(&opts.AuthorLogin, "author", "", "author login (default: acting login)")
	cmd.Flags().Float64Var(&effort, "effort", 0, "effort to fix")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "attribute as key=value (repeatable)")
	return cmd
}
