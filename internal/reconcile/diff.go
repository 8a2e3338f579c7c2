package reconcile

import (
	"cmp"
	"slices"
)

// Update rewrites an existing project's name and note.
type Update struct {
	Project Project `json:"project"`
	Name    string  `json:"name"`
	Note    string  `json:"note"`
}

// Create adds a project for an issue that has none yet.
type Create struct {
	IssueID string `json:"issue_id"`
	Folder  string `json:"folder"` // relative to the root
	Name    string `json:"name"`
	Note    string `json:"note"`
}

// Plan lists the store changes needed to mirror the remote issues.
type Plan struct {
	DeleteProjects []Project `json:"delete_projects"`
	DeleteFolders  []Folder  `json:"delete_folders"`
	Updates        []Update  `json:"updates"`
	Creates        []Create  `json:"creates"`
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.DeleteProjects) == 0 && len(p.DeleteFolders) == 0 &&
		len(p.Updates) == 0 && len(p.Creates) == 0
}

// Destructive reports whether the plan deletes anything.
func (p Plan) Destructive() bool {
	return len(p.DeleteProjects) > 0 || len(p.DeleteFolders) > 0
}

// Diff computes the plan that turns the local projects and folders into a
// mirror of issues. Duplicate issue ids keep the first occurrence.
func Diff(issues []Issue, projects []Project, folders []Folder) Plan {
	var plan Plan

	remote := make(map[string]Issue, len(issues))
	var order []string
	remoteProjects := make(map[string]bool)
	for _, issue := range issues {
		if _, dup := remote[issue.ID]; dup {
			continue
		}
		remote[issue.ID] = issue
		order = append(order, issue.ID)
		remoteProjects[issue.Project] = true
	}

	// Folders: sorting by path puts ancestors before descendants, so a
	// folder below an already deleted one can be skipped.
	sorted := slices.Clone(folders)
	slices.SortStableFunc(sorted, func(a, b Folder) int {
		return cmp.Compare(a.Path, b.Path)
	})
	for _, f := range sorted {
		if remoteProjects[f.Name] || inDeleted(f.Path, plan.DeleteFolders) {
			continue
		}
		plan.DeleteFolders = append(plan.DeleteFolders, f)
	}

	covered := make(map[string]bool)
	for _, p := range projects {
		if inDeleted(p.Folder, plan.DeleteFolders) {
			continue
		}
		id, ok := IssueIDFromName(p.Name)
		issue, known := remote[id]
		if !ok || !known {
			plan.DeleteProjects = append(plan.DeleteProjects, p)
			continue
		}
		covered[id] = true

		name, note := ProjectName(issue), ProjectNote(issue)
		if p.Name != name || p.Note != note {
			plan.Updates = append(plan.Updates, Update{Project: p, Name: name, Note: note})
		}
	}

	for _, id := range order {
		if covered[id] {
			continue
		}
		issue := remote[id]
		plan.Creates = append(plan.Creates, Create{
			IssueID: id,
			Folder:  issue.Project,
			Name:    ProjectName(issue),
			Note:    ProjectNote(issue),
		})
	}

	return plan
}

// inDeleted reports whether path lies in (or is) one of the deleted folders.
func inDeleted(path string, deleted []Folder) bool {
	for _, f := range deleted {
		if within(path, f.Path) {
			return true
		}
	}
	return false
}
