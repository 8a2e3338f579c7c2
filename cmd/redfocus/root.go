package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/config"
	"github.com/raphi011/redfocus/internal/log"
	"github.com/raphi011/redfocus/internal/output"
	"github.com/raphi011/redfocus/internal/ui/styles"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	configFile string
)

// Command group IDs for organizing help output
const (
	GroupSync    = "sync"
	GroupRedmine = "redmine"
	GroupConfig  = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redfocus",
	Short: "One way sync from Redmine to OmniFocus",
	Long: `redfocus mirrors Redmine issues into OmniFocus.

Every issue becomes a project named "#<id> - <subject>" inside a folder named
after its Redmine project, below a root folder you choose. Projects and
folders below the root that no longer match an issue are deleted.

Nothing is synced unless OmniFocus is running.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		ctx := cmd.Context()
		l := log.New(colorprofile.NewWriter(os.Stderr, os.Environ()), verbose, quiet)
		ctx = log.WithLogger(ctx, l)

		cfg, err := config.Load(configFile)
		if err != nil {
			// config init and doctor must work with a broken config file
			if cmd.Name() != "init" && cmd.Name() != "doctor" {
				return err
			}
			l.Printf("Warning: %v\n", err)
		}
		if !styles.SetTheme(cfg.UI.Theme) {
			l.Printf("Warning: unknown theme %q, using default\n", cfg.UI.Theme)
		}
		ctx = config.WithConfig(ctx, &cfg)

		cmd.SetContext(ctx)
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Add output printer (stdout for primary data), downsampling colors
	// to what the terminal supports
	ctx = output.WithPrinter(ctx, colorprofile.NewWriter(os.Stdout, os.Environ()))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stderr := colorprofile.NewWriter(os.Stderr, os.Environ())
		fmt.Fprintln(stderr, styles.ErrorStyle().Render("Error:"), err)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Run 'redfocus -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands and HTTP requests")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.config/redfocus/config.toml)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSync, Title: "Sync Commands:"},
		&cobra.Group{ID: GroupRedmine, Title: "Redmine Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newHistoryCmd())

	rootCmd.AddCommand(newIssuesCmd())
	rootCmd.AddCommand(newURLCmd())

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
