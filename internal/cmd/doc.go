// Package cmd provides helpers for executing shell commands with proper error handling.
//
// Commands run with a context so they are killed on cancellation, and stderr
// is captured so failures carry the tool's own message.
//
// # Usage
//
//	// JXA script on stdin, JSON argument in argv:
//	out, err := cmd.OutputInputContext(ctx, "", script, "osascript", "-l", "JavaScript", "-", arg)
package cmd
