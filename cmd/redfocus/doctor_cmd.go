package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/config"
	"github.com/raphi011/redfocus/internal/omnifocus"
	"github.com/raphi011/redfocus/internal/output"
	"github.com/raphi011/redfocus/internal/ui/styles"
)

func newDoctorCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose setup problems",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose setup problems.

Checks:
- osascript is installed
- OmniFocus is running
- Config file is valid and complete for sync
- Redmine feed is reachable (skipped with --offline)`,
		Example: `  redfocus doctor            # Run all checks
  redfocus doctor --offline  # Skip the Redmine request`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			var problems int

			ok := func(format string, a ...any) {
				out.Println(styles.SuccessStyle().Render("✓"), fmt.Sprintf(format, a...))
			}
			warn := func(format string, a ...any) {
				out.Println(styles.WarningStyle().Render("⚠"), fmt.Sprintf(format, a...))
			}
			fail := func(format string, a ...any) {
				out.Println(styles.ErrorStyle().Render("✗"), fmt.Sprintf(format, a...))
				problems++
			}

			out.Println("Running diagnostics...")
			out.Println()

			if err := omnifocus.CheckOsascript(); err != nil {
				fail("osascript not found: %v", err)
			} else {
				ok("osascript is available")

				err := newStore().RequireRunning(ctx)
				switch {
				case errors.Is(err, omnifocus.ErrNotRunning):
					warn("OmniFocus is not running (sync will do nothing)")
				case err != nil:
					fail("cannot talk to OmniFocus: %v", err)
				default:
					ok("OmniFocus is running")
				}
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				fail("config: %v", err)
			} else {
				ok("Config loaded")
			}

			if err := cfg.ValidateSync(); err != nil {
				fail("config incomplete: %v", err)
			} else {
				ok("Sync settings complete (root folder %q)", cfg.Folder)

				if !offline {
					issues, err := newSource(cfg).Fetch(ctx)
					switch {
					case err != nil:
						fail("Redmine: %v", err)
					case len(issues) == 0:
						warn("Redmine returned no issues (invalid credentials may cause this)")
					default:
						ok("Redmine returned %d issues", len(issues))
					}
				}
			}

			out.Println()
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			out.Println("No problems found")
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the Redmine request")

	return cmd
}
