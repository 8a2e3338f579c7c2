// Package prompt provides simple interactive prompts.
//
// Prompts render on stderr so stdout stays clean for --json output.
// Callers check for a terminal before prompting.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt, defaulting to no
package prompt
