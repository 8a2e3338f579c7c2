// Package reconcile mirrors a remote issue list into hierarchical task-store
// projects.
//
// Every issue becomes one project named "#<id> - <subject>" inside a folder
// named after the issue's project, below a configurable root folder:
//
//	Work////Redmine/
//	├── Website/
//	│   ├── #101 - Fix login redirect
//	│   └── #107 - Update footer
//	└── Billing/
//	    └── #98 - Invoice rounding
//
// # Diff
//
// [Diff] compares a remote snapshot against the local one and produces a
// [Plan]:
//
//   - projects without a parseable "#<id> " prefix, or whose id is no longer
//     remote, are deleted
//   - folders whose name is not a remote project name are deleted (only the
//     top-most one is listed; everything below it goes with it)
//   - surviving projects get their name and note rewritten when stale
//   - issues without a surviving project are created
//
// # Apply
//
// [Apply] executes a plan against a [Store] in the order deletes, updates,
// creates, and then asks the store to synchronize. [Sync] wires a [Source],
// a [Store] and the two steps together.
package reconcile
