package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/config"
	"github.com/raphi011/redfocus/internal/output"
	"github.com/raphi011/redfocus/internal/reconcile"
	"github.com/raphi011/redfocus/internal/ui/static"
)

func newIssuesCmd() *cobra.Command {
	var (
		remote     remoteFlags
		filter     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "issues [issues-url url-prefix user password]",
		Short:   "List the issues a sync would mirror",
		Aliases: []string{"ls"},
		GroupID: GroupRedmine,
		Args:    cobra.MaximumNArgs(4),
		Long: `List the issues returned by the Redmine feed.

Nothing in OmniFocus is read or changed. --filter fuzzy matches the
project name an issue would get ("#<id> - <subject>") and sorts by score.`,
		Example: `  redfocus issues                # all issues
  redfocus issues --filter login # fuzzy filter
  redfocus issues --json         # JSON output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			// the folder is not needed, shift positional args past it
			cfg := resolveSettings(configFromContext(ctx), append([]string{""}, args...), remote)
			issues, err := fetchIssues(ctx, cfg)
			if err != nil {
				return err
			}
			if filter != "" {
				issues = filterIssues(issues, filter)
			}

			if jsonOutput {
				if issues == nil {
					issues = []reconcile.Issue{}
				}
				return out.JSON(issues)
			}
			if len(issues) == 0 {
				out.Println("No issues")
				return nil
			}
			out.Print(static.RenderIssues(issues))
			return nil
		},
	}

	remote.register(cmd, false)
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on project name")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func fetchIssues(ctx context.Context, cfg config.Config) ([]reconcile.Issue, error) {
	if cfg.IssuesURL == "" {
		return nil, errors.New("missing issues_url: pass as argument, flag, env var or in the config file")
	}
	issues, err := newSource(cfg).Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch issues: %w", err)
	}
	return issues, nil
}

// issueNames adapts issues to fuzzy.Source.
type issueNames []reconcile.Issue

func (n issueNames) String(i int) string {
	return reconcile.ProjectName(n[i])
}

func (n issueNames) Len() int {
	return len(n)
}

// filterIssues returns the issues whose project name fuzzy matches pattern,
// best match first.
func filterIssues(issues []reconcile.Issue, pattern string) []reconcile.Issue {
	matches := fuzzy.FindFrom(pattern, issueNames(issues))
	filtered := make([]reconcile.Issue, len(matches))
	for i, m := range matches {
		filtered[i] = issues[m.Index]
	}
	return filtered
}
