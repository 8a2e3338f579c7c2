// Package config handles loading and validation of redfocus configuration.
//
// Configuration is read from ~/.config/redfocus/config.toml (or the file
// given with --config) with environment variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - Positional arguments and flags of "redfocus sync"
//   - REDFOCUS_* environment variables (REDFOCUS_PASSWORD, ...)
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - folder: OmniFocus root folder, nested folders joined with "////"
//   - issues_url: Redmine issues.xml feed (absolute http or https URL)
//   - url_prefix: base of issue links, "<url_prefix>/<id>"
//   - user, password: basic auth credentials
//   - page_concurrency: parallel page fetches for paginated feeds
//   - timeout: HTTP timeout as a Go duration ("30s")
//
// # UI Configuration
//
//	[ui]
//	theme = "nord"  # "default", "dracula", "nord", or "none"
//
// A missing file is not an error; an invalid one is.
package config
