package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/internal/render"
	"github.com/issuekit/issuekit/pkg/model"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <key>",
		Short: "Show the change history of an issue",
		Long: `Show the committed change sets of an issue, newest first.

Each change set lists the fields changed in one pass with their old and
new values.`,
		Args: cobra.ExactArgs(1),
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
				changes := issue.Changes
				if changes == nil {
					changes = []*model.FieldDiffs{}
				}
				return outputJSON(changes)
			}
			fmt.Printf("History of %s\n", issue.Key)
			fmt.Print(render.History(issue))
			return nil
		},
	}
}
