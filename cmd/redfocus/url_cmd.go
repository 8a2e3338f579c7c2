package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/config"
	"github.com/raphi011/redfocus/internal/log"
	"github.com/raphi011/redfocus/internal/output"
	"github.com/raphi011/redfocus/internal/reconcile"
	"github.com/raphi011/redfocus/internal/redmine"
)

func newURLCmd() *cobra.Command {
	var (
		urlPrefix string
		copyURL   bool
	)

	cmd := &cobra.Command{
		Use:     "url <id|project-name>",
		Short:   "Print the Redmine link of an issue",
		GroupID: GroupRedmine,
		Args:    cobra.ExactArgs(1),
		Long: `Print the Redmine link of an issue.

Accepts a bare id ("1234"), "#1234" or a full OmniFocus project name
("#1234 - Fix login").`,
		Example: `  redfocus url 1234
  redfocus url "#1234 - Fix login" --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			id, err := parseIssueRef(args[0])
			if err != nil {
				return err
			}
			cfg := resolveSettings(configFromContext(ctx), nil, remoteFlags{urlPrefix: urlPrefix})
			if cfg.URLPrefix == "" {
				return fmt.Errorf("missing url_prefix: pass --url-prefix, set %s or url_prefix in the config file", config.EnvURLPrefix)
			}

			link := redmine.IssueURL(cfg.URLPrefix, id)
			out.Println(link)

			if copyURL {
				if err := clipboard.WriteAll(link); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				log.FromContext(ctx).Println("Copied to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&urlPrefix, "url-prefix", "", "Prefix for issue links (<prefix>/<id>)")
	cmd.Flags().BoolVarP(&copyURL, "copy", "c", false, "Copy the link to the clipboard")

	return cmd
}

// parseIssueRef extracts the issue id from "1234", "#1234" or a project
// name "#1234 - subject".
func parseIssueRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := reconcile.IssueIDFromName(ref); ok {
		return id, nil
	}
	id := strings.TrimPrefix(ref, "#")
	if id == "" || strings.Trim(id, "0123456789") != "" {
		return "", fmt.Errorf("invalid issue reference %q", ref)
	}
	return id, nil
}
