package main

import (
	"context"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/config"
	"github.com/raphi011/redfocus/internal/reconcile"
	"github.com/raphi011/redfocus/internal/redmine"
)

// remoteFlags holds the connection flags shared by sync, issues and url.
type remoteFlags struct {
	folder    string
	issuesURL string
	urlPrefix string
	user      string
}

func (f *remoteFlags) register(cmd *cobra.Command, withFolder bool) {
	if withFolder {
		cmd.Flags().StringVar(&f.folder, "folder", "", "OmniFocus root folder (path elements separated by ////)")
	}
	cmd.Flags().StringVar(&f.issuesURL, "issues-url", "", "Redmine issues.xml URL")
	cmd.Flags().StringVar(&f.urlPrefix, "url-prefix", "", "Prefix for issue links (<prefix>/<id>)")
	cmd.Flags().StringVar(&f.user, "user", "", "Redmine user for basic auth")
}

// resolveSettings layers positional arguments and flags over the loaded
// config. Positional arguments are folder, issues-url, url-prefix, user and
// password, in that order; any prefix of them may be given.
func resolveSettings(cfg config.Config, args []string, f remoteFlags) config.Config {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Folder, f.folder)
	override(&cfg.IssuesURL, f.issuesURL)
	override(&cfg.URLPrefix, f.urlPrefix)
	override(&cfg.User, f.user)

	positional := []*string{&cfg.Folder, &cfg.IssuesURL, &cfg.URLPrefix, &cfg.User, &cfg.Password}
	for i, arg := range args {
		if i < len(positional) {
			*positional[i] = arg
		}
	}
	return cfg
}

// configFromContext returns the loaded config or the defaults.
func configFromContext(ctx context.Context) config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return *cfg
	}
	return config.Default()
}

func newClient(cfg config.Config) *redmine.Client {
	return &redmine.Client{
		IssuesURL:   cfg.IssuesURL,
		URLPrefix:   cfg.URLPrefix,
		User:        cfg.User,
		Password:    cfg.Password,
		Concurrency: cfg.PageConcurrency,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout.Duration},
	}
}

// newSource builds the issue source for cfg. Replaced in tests.
var newSource = func(cfg config.Config) reconcile.Source {
	return newClient(cfg)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
