package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/history"
	"github.com/raphi011/redfocus/internal/output"
	"github.com/raphi011/redfocus/internal/ui/static"
	"github.com/raphi011/redfocus/internal/ui/styles"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent sync runs",
		GroupID: GroupSync,
		Args:    cobra.NoArgs,
		Long: fmt.Sprintf(`Show recent sync runs, newest first.

The last %d runs are kept in the state directory
(~/.local/state/redfocus, override with REDFOCUS_STATE_DIR).
Dry runs are not recorded.`, history.MaxEntries),
		Example: `  redfocus history         # last 10 runs
  redfocus history -n 1    # last run only
  redfocus history --json  # JSON output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			path, err := history.Path()
			if err != nil {
				return err
			}
			h, err := history.Load(path)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			entries := h.Entries
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return out.JSON(entries)
			}
			if len(entries) == 0 {
				out.Println("No sync runs recorded")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = historyRow(e)
			}
			out.Print(static.RenderTable([]string{"TIME", "FOLDER", "ISSUES", "RESULT"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func historyRow(e history.Entry) []string {
	result := static.RenderResult(e.Result)
	if e.Error != "" {
		result = styles.ErrorStyle().Render("failed: " + e.Error)
	}
	return []string{
		e.Time.Local().Format(time.DateTime),
		static.DisplayPath(e.Root),
		fmt.Sprint(e.Issues),
		result,
	}
}
