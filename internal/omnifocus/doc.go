// Package omnifocus provides the task store projects are mirrored into.
//
// [App] drives the OmniFocus default document with JavaScript for
// Automation scripts run through osascript. Every script receives its
// arguments as a single JSON string and answers in JSON, so no AppleScript
// escaping is needed for names or notes.
//
// Folder paths are folder names joined with [reconcile.PathSeparator]
// ("////"), starting at the document:
//
//	app.CreateProject(ctx, "Work////Redmine////Website", "#101 - Fix login", note)
//
// [Memory] implements the same store in memory for tests and previews.
package omnifocus
