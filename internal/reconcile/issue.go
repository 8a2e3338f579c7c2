package reconcile

import (
	"fmt"
	"regexp"
	"strings"
)

// PathSeparator joins folder names into a folder path.
// A slash alone is too common in folder names to be used.
const PathSeparator = "////"

// Issue is a remote ticket as read from the issue feed.
type Issue struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Project     string `json:"project"`
	Tracker     string `json:"tracker"`
	Status      string `json:"status"`
	Author      string `json:"author"`
	AssignedTo  string `json:"assigned_to"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Project is a local task-store project below the sync root.
type Project struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Note   string `json:"note"`
	Folder string `json:"folder"` // path relative to the root, "" = directly in root
}

// Folder is a local task-store folder below the sync root.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"` // relative to the root, includes Name as last element
}

var issueIDPattern = regexp.MustCompile(`^#(\d+) `)

// IssueIDFromName extracts the issue id from a project name like "#123 - Subject".
func IssueIDFromName(name string) (string, bool) {
	m := issueIDPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ProjectName returns the display name of the project mirroring issue.
func ProjectName(issue Issue) string {
	return fmt.Sprintf("#%s - %s", issue.ID, issue.Subject)
}

// ProjectNote returns the note body of the project mirroring issue.
func ProjectNote(issue Issue) string {
	return fmt.Sprintf("%s\n\nStatus: %s\nProject: %s\nAuthor: %s\nAssigned To: %s\n\n%s",
		issue.URL,
		issue.Status,
		issue.Project,
		issue.Author,
		issue.AssignedTo,
		issue.Description,
	)
}

// JoinPath joins folder path elements with PathSeparator, skipping empty ones.
func JoinPath(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, PathSeparator)
}

// SplitPath splits a folder path into its folder names.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// within reports whether path equals ancestor or lies below it.
func within(path, ancestor string) bool {
	return path == ancestor || strings.HasPrefix(path, ancestor+PathSeparator)
}
