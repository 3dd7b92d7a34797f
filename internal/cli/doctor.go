package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check workspace health",
		Long: `Check workspace health.

Runs diagnostic checks on the workspace and reports any problems.
Use --strict to include audit log hash chain verification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := requireRepo()
			if err != nil {
				return err
			}
			result, err := doctor.NewDoctor(r.Root).Check(strict)
			if err != nil {
				return fmt.Errorf("doctor: %w", err)
			}

			if jsonOutput {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else if len(result.Findings) == 0 {
				fmt.Println("Workspace is healthy.")
			} else {
				fmt.Printf("Findings (%d):\n", len(result.Findings))
				for _, f := range result.Findings {
					fmt.Printf("  [%s] %s: %s\n", f.Severity, f.Category, f.Description)
				}
			}

			if !result.Healthy {
				return errors.New("workspace is unhealthy")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "include audit chain verification")
	return cmd
}
