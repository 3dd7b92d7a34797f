package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/issuekit/issuekit/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage issuekit configuration",
		Long: `Manage issuekit configuration stored in .issuekit/config.yaml.

Configuration options:
  default_login  - Login changes are attributed to when --as is not given
  output_format  - Default output format (text, json)
  logging.level  - Log level (debug, info, warn, error)
  audit.enabled  - Append committed changes to the audit log (true, false)

Available commands:
  show              - Show current configuration
  set <key> <value> - Set a configuration value
  get <key>         - Get a configuration value`,
		DisableFlagsInUseLine: true,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := requireRepo()
			if err != nil {
				return err
			}
			cfg, err := config.Load(r.Root)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if jsonOutput {
				return outputJSON(cfg)
			}
			fmt.Println("# issuekit configuration")
			fmt.Printf("# Location: %s\n\n", config.Path(r.Root))
			for _, key := range config.Keys {
				value, _ := cfg.Get(key)
				if value == "" {
					value = "(not set)"
				}
				fmt.Printf("%s: %s\n", key, value)
			}
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in .issuekit/config.yaml.

Examples:
  issuekit config set default_login emmerik
  issuekit config set output_format json
  issuekit config set audit.enabled false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := requireRepo()
			if err != nil {
				return err
			}
			cfg, err := config.Load(r.Root)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return fmt.Errorf("set config: %w", err)
			}
			if err := config.Save(r.Root, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := requireRepo()
			if err != nil {
				return err
			}
			cfg, err := config.Load(r.Root)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			value, err := cfg.Get(args[0])
			if err != nil {
				return fmt.Errorf("get config: %w", err)
			}
			if value == "" {
				fmt.Printf("%s (not set)\n", args[0])
			} else {
				fmt.Println(value)
			}
			return nil
		},
	}

	cmd.AddCommand(showCmd, setCmd, getCmd)
	return cmd
}
