package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/config"
	"github.com/raphi011/redfocus/internal/log"
	"github.com/raphi011/redfocus/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage redfocus configuration.

Config file: ~/.config/redfocus/config.toml (override with --config)

Environment variables override the file:
  REDFOCUS_FOLDER, REDFOCUS_ISSUES_URL, REDFOCUS_URL_PREFIX,
  REDFOCUS_USER, REDFOCUS_PASSWORD, REDFOCUS_THEME`,
		Example: `  redfocus config init     # Create default config
  redfocus config show     # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  redfocus config init      # Create config
  redfocus config init -f   # Overwrite existing config
  redfocus config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}

			path, err := config.Init(configFile, force)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration after environment overrides.

The password is masked.`,
		Example: `  redfocus config show          # TOML
  redfocus config show --json   # JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := configFromContext(ctx).Redacted()

			if jsonOutput {
				return out.JSON(cfg)
			}
			s, err := cfg.Encode()
			if err != nil {
				return err
			}
			out.Print(s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
