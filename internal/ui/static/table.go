// Package static provides non-interactive terminal output components.
//
// This package renders issue lists and sync plans as aligned tables
// and styled summaries that need no user interaction.
package static

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/redfocus/internal/reconcile"
	"github.com/raphi011/redfocus/internal/ui/styles"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	return t.String() + "\n"
}

// IssueHeaders are the columns of IssueRow.
var IssueHeaders = []string{"ID", "PROJECT", "TRACKER", "STATUS", "ASSIGNED", "SUBJECT"}

// maxSubject bounds the subject column width.
const maxSubject = 60

// IssueRow returns the table row for issue.
func IssueRow(issue reconcile.Issue) []string {
	return []string{
		"#" + issue.ID,
		issue.Project,
		issue.Tracker,
		issue.Status,
		issue.AssignedTo,
		truncate(issue.Subject, maxSubject),
	}
}

// RenderIssues renders issues as a table.
func RenderIssues(issues []reconcile.Issue) string {
	rows := make([][]string, len(issues))
	for i, issue := range issues {
		rows[i] = IssueRow(issue)
	}
	return RenderTable(IssueHeaders, rows)
}

// RenderPlan renders one line per planned change below root.
// Returns "" for an empty plan.
func RenderPlan(root string, plan reconcile.Plan) string {
	var b strings.Builder
	del := styles.ErrorStyle().Render("- delete")
	upd := styles.WarningStyle().Render("~ update")
	add := styles.SuccessStyle().Render("+ create")

	for _, p := range plan.DeleteProjects {
		fmt.Fprintf(&b, "%s project %s\n", del, DisplayPath(root, p.Folder, p.Name))
	}
	for _, f := range plan.DeleteFolders {
		fmt.Fprintf(&b, "%s folder  %s\n", del, DisplayPath(root, f.Path))
	}
	for _, u := range plan.Updates {
		if u.Name != u.Project.Name {
			fmt.Fprintf(&b, "%s project %s %s %s\n", upd, DisplayPath(root, u.Project.Folder, u.Project.Name),
				styles.MutedStyle().Render("->"), u.Name)
			continue
		}
		fmt.Fprintf(&b, "%s project %s %s\n", upd, DisplayPath(root, u.Project.Folder, u.Name),
			styles.MutedStyle().Render("(note)"))
	}
	for _, c := range plan.Creates {
		fmt.Fprintf(&b, "%s project %s\n", add, DisplayPath(root, c.Folder, c.Name))
	}
	return b.String()
}

// RenderResult renders the one-line summary of an applied sync.
func RenderResult(res reconcile.Result) string {
	if res.Total() == 0 {
		return styles.MutedStyle().Render("Already up to date")
	}
	return fmt.Sprintf("%s, %s, %s, %s",
		styles.SuccessStyle().Render(fmt.Sprintf("%d created", res.Created)),
		styles.WarningStyle().Render(fmt.Sprintf("%d updated", res.Updated)),
		styles.ErrorStyle().Render(fmt.Sprintf("%d projects deleted", res.DeletedProjects)),
		styles.ErrorStyle().Render(fmt.Sprintf("%d folders deleted", res.DeletedFolders)),
	)
}

// DisplayPath renders a folder path with " / " separators for readability.
func DisplayPath(root string, elems ...string) string {
	return strings.Join(reconcile.SplitPath(reconcile.JoinPath(append([]string{root}, elems...)...)), " / ")
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
