package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/internal/render"
	"github.com/issuekit/issuekit/pkg/color"
	"github.com/issuekit/issuekit/pkg/model"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <command>",
		Short: "Inspect the change audit log",
		Long: `Inspect the change audit log stored in .issuekit/audit/audit.jsonl.

Every created issue and every committed change pass appends one record.
Records are chained by SHA-256 hashes so edits to the log are detectable.`,
		DisableFlagsInUseLine: true,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the audit log hash chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient()
			if err != nil {
				return err
			}
			result, verr := client.VerifyAudit(commandContext(cmd))
			if result == nil || (verr != nil && result.Valid) {
				return verr
			}

			if jsonOutput {
				if err := outputJSON(result); err != nil {
					return err
				}
				return verr
			}
			if result.Valid {
				fmt.Printf("%s %d records, chain intact\n", color.Success("OK"), result.Records)
				return nil
			}
			fmt.Printf("%s chain broken at line %d: %s\n", color.Error("FAIL"), result.BrokenAt, result.Error)
			return verr
		},
	}

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Show audit records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient()
			if err != nil {
				return err
			}
			records, err := client.AuditRecords(commandContext(cmd))
			if err != nil {
				return err
			}

			if jsonOutput {
				if records == nil {
					records = []*model.AuditRecord{}
				}
				return outputJSON(records)
			}
			if len(records) == 0 {
				fmt.Println("No audit records.")
				return nil
			}
			for _, r := range records {
				login := r.Login
				if login == "" {
					login = "scan"
				}
				fmt.Printf("%s %-12s %s by %s\n",
					color.Dim(r.Timestamp.Format("2006-01-02 15:04:05")),
					r.EventType, color.IssueKey(r.IssueKey), login)
				for _, d := range r.Diffs {
					fmt.Printf("  ~ %s: %s -> %s\n", color.Field(d.Field), render.Value(d.OldValue), render.Value(d.NewValue))
				}
			}
			return nil
		},
	}

	cmd.AddCommand(verifyCmd, logCmd)
	return cmd
}
