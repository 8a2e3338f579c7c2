package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/raphi011/redfocus/internal/reconcile"
)

// ValidThemes are the accepted ui.theme values.
var ValidThemes = []string{"default", "dracula", "nord", "none"}

// validateFile checks settings that are wrong regardless of how the
// remaining settings get filled in later.
func validateFile(cfg Config) error {
	if err := validateURL(cfg.IssuesURL, "issues_url"); err != nil {
		return err
	}
	if err := validateURL(cfg.URLPrefix, "url_prefix"); err != nil {
		return err
	}
	if err := validateEnum(cfg.UI.Theme, "ui.theme", ValidThemes); err != nil {
		return err
	}
	if cfg.PageConcurrency < 0 {
		return fmt.Errorf("invalid page_concurrency %d: must not be negative", cfg.PageConcurrency)
	}
	if cfg.Timeout.Duration < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", cfg.Timeout)
	}
	return nil
}

// ValidateSync checks that everything a sync run needs is set.
func (c Config) ValidateSync() error {
	var missing []string
	if strings.TrimSpace(c.Folder) == "" {
		missing = append(missing, "folder")
	}
	if c.IssuesURL == "" {
		missing = append(missing, "issues_url")
	}
	if c.URLPrefix == "" {
		missing = append(missing, "url_prefix")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: pass as arguments, flags, env vars or in the config file", strings.Join(missing, ", "))
	}
	if err := validateURL(c.IssuesURL, "issues_url"); err != nil {
		return err
	}
	if err := validateURL(c.URLPrefix, "url_prefix"); err != nil {
		return err
	}
	if slices.Contains(reconcile.SplitPath(c.Folder), "") {
		return fmt.Errorf("invalid folder %q: empty folder name in path", c.Folder)
	}
	return nil
}

// validateURL checks that value (if non-empty) is an absolute http(s) URL.
func validateURL(value, field string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: must be an http or https URL", field, value)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", field, value)
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
