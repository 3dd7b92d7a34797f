package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/internal/render"
	"github.com/issuekit/issuekit/internal/store"
	"github.com/issuekit/issuekit/pkg/color"
	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/issuekit"
	"github.com/issuekit/issuekit/pkg/model"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show an issue",
		Long:  "Show the current fields of an issue. The key may be a unique prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient()
			if err != nil {
				return err
			}
			issue, err := getIssue(cmd, client, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(issue)
			}
			fmt.Print(render.Issue(issue))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var status, severity, assignee string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues",
		Long: `List issues, newest first.

Examples:
  issuekit list
  issuekit list --status OPEN --severity BLOCKER
  issuekit list --assignee emmerik`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts store.FilterOptions
			if status != "" {
				s, err := model.ParseStatus(status)
				if err != nil {
					return err
				}
				opts.Status = s
			}
			if severity != "" {
				s, err := model.ParseSeverity(severity)
				if err != nil {
					return err
				}
				opts.Severity = s
			}
			opts.Assignee = assignee

			client, err := openClient()
			if err != nil {
				return err
			}
			issues, err := client.List(commandContext(cmd), opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				if issues == nil {
					issues = []*model.Issue{}
				}
				return outputJSON(issues)
			}
			if len(issues) == 0 {
				fmt.Println("No issues.")
				return nil
			}
			for _, issue := range issues {
				fmt.Println(render.Summary(issue))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&assignee, "assignee", "", "filter by assignee")
	return cmd
}

// getIssue resolves ref, adding a suggestion when nothing matches.
func getIssue(cmd *cobra.Command, client *issuekit.Client, ref string) (*model.Issue, error) {
	issue, err := client.Get(commandContext(cmd), ref)
	if err != nil {
		if errors.Is(err, errclass.ErrIssueNotFound) {
			return nil, fmt.Errorf("%w\n%s", err, suggestIssues(cmd, client, ref))
		}
		return nil, err
	}
	return issue, nil
}

// suggestIssues lists keys containing ref, or points at "issuekit list".
func suggestIssues(cmd *cobra.Command, client *issuekit.Client, ref string) string {
	issues, err := client.List(commandContext(cmd), store.FilterOptions{})
	if err == nil {
		var matches []string
		for _, issue := range issues {
			if strings.Contains(strings.ToLower(issue.Key), strings.ToLower(ref)) {
				matches = append(matches, color.IssueKey(issue.Key))
			}
			if len(matches) == 3 {
				break
			}
		}
		if len(matches) > 0 {
			hint := "Did you mean"
			if len(matches) > 1 {
				hint += " one of"
			}
			return fmt.Sprintf("%s: %s?", hint, strings.Join(matches, ", "))
		}
	}
	return fmt.Sprintf("Run %s to see available issues.", color.Info("issuekit list"))
}
