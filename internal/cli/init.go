package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/pkg/color"
	"github.com/issuekit/issuekit/pkg/issuekit"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a new issue workspace",
		Long: `Initialize a new issue workspace in dir (default: current directory).

This creates:
  - .issuekit/issues/ holding one JSON file per issue
  - .issuekit/audit/ holding the change audit log
  - .issuekit/config.yaml with default settings`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			client, err := issuekit.Init(path)
			if err != nil {
				return err
			}

			if jsonOutput {
				return outputJSON(map[string]any{
					"root":         client.Root(),
					"workspace_id": client.WorkspaceID(),
				})
			}
			fmt.Printf("Initialized issue workspace in %s\n", color.Success(client.Root()))
			return nil
		},
	}
}
