// Package cli implements the issuekit command line.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/pkg/color"
)

var (
	jsonOutput bool
	noColor    bool
	asLogin    string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issuekit",
		Short: "issuekit - diff-tracked issue workspaces",
		Long: `issuekit keeps code issues in a local workspace and records every
field change as a diff attributed to a login, with a hash-chained audit log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color.Init(noColor)
		},
	}
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVar(&asLogin, "as", "", "login to attribute changes to (default: config default_login)")

	cmd.AddCommand(
		newInitCmd(),
		newCreateCmd(),
		newShowCmd(),
		newListCmd(),
		newUpdateCmd(),
		newHistoryCmd(),
		newAuditCmd(),
		newConfigCmd(),
		newDoctorCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
}

// outputJSON prints v as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtErr(format string, args ...any) {
	prefix := "issuekit: "
	if color.Enabled() {
		prefix = color.Error("issuekit:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
