package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/internal/repo"
	"github.com/issuekit/issuekit/pkg/color"
	"github.com/issuekit/issuekit/pkg/issuekit"
	"github.com/issuekit/issuekit/pkg/logging"
)

// requireRepo discovers the workspace from the current directory.
func requireRepo() (*repo.Repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot get current directory: %w", err)
	}
	r, err := repo.Discover(cwd)
	if err != nil {
		return nil, fmt.Errorf("%w\n%s", err, notInWorkspaceHint())
	}
	return r, nil
}

// openClient opens the workspace containing the current directory and
// configures logging from its config.
func openClient() (*issuekit.Client, error) {
	r, err := requireRepo()
	if err != nil {
		return nil, err
	}
	client, err := issuekit.Open(r.Root)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(client.Config().Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	logging.SetGlobal(logging.NewLogger(level).WithFields(map[string]any{
		"workspace": client.WorkspaceID(),
	}))

	if client.Config().OutputFormat == "json" {
		jsonOutput = true
	}
	return client, nil
}

// commandContext returns the command context carrying the --as login.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if asLogin != "" {
		ctx = issuekit.WithLogin(ctx, asLogin)
	}
	return ctx
}

func notInWorkspaceHint() string {
	return fmt.Sprintf("Run %s to create a workspace here.", color.Info("issuekit init"))
}
