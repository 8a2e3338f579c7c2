package reconcile

import (
	"context"
	"fmt"

	"github.com/raphi011/redfocus/internal/log"
)

// Store is the local task store that projects are mirrored into.
// Folder paths passed to and returned from a Store are joined with
// PathSeparator; Projects and Folders report paths relative to root.
type Store interface {
	Projects(ctx context.Context, root string) ([]Project, error)
	Folders(ctx context.Context, root string) ([]Folder, error)
	DeleteProject(ctx context.Context, id string) error
	DeleteFolder(ctx context.Context, id string) error
	UpdateProject(ctx context.Context, id, name, note string) error
	// CreateProject creates a project in the folder at path, creating
	// missing folders along the way.
	CreateProject(ctx context.Context, path, name, note string) error
	Synchronize(ctx context.Context) error
}

// Result counts the changes applied to the store.
type Result struct {
	DeletedProjects int `json:"deleted_projects"`
	DeletedFolders  int `json:"deleted_folders"`
	Updated         int `json:"updated"`
	Created         int `json:"created"`
}

// Total returns the number of applied changes.
func (r Result) Total() int {
	return r.DeletedProjects + r.DeletedFolders + r.Updated + r.Created
}

// Apply executes plan against store below root and synchronizes the store.
// It stops at the first failure; the returned Result counts what was applied
// before it.
func Apply(ctx context.Context, store Store, root string, plan Plan) (Result, error) {
	l := log.FromContext(ctx)
	var res Result

	for _, p := range plan.DeleteProjects {
		l.Debug("deleting project", "name", p.Name, "folder", p.Folder)
		if err := store.DeleteProject(ctx, p.ID); err != nil {
			return res, fmt.Errorf("delete project %q: %w", p.Name, err)
		}
		res.DeletedProjects++
	}

	for _, f := range plan.DeleteFolders {
		l.Debug("deleting folder", "path", f.Path)
		if err := store.DeleteFolder(ctx, f.ID); err != nil {
			return res, fmt.Errorf("delete folder %q: %w", f.Path, err)
		}
		res.DeletedFolders++
	}

	for _, u := range plan.Updates {
		l.Debug("updating project", "from", u.Project.Name, "to", u.Name)
		if err := store.UpdateProject(ctx, u.Project.ID, u.Name, u.Note); err != nil {
			return res, fmt.Errorf("update project %q: %w", u.Project.Name, err)
		}
		res.Updated++
	}

	for _, c := range plan.Creates {
		path := JoinPath(root, c.Folder)
		l.Debug("creating project", "name", c.Name, "folder", path)
		if err := store.CreateProject(ctx, path, c.Name, c.Note); err != nil {
			return res, fmt.Errorf("create project %q: %w", c.Name, err)
		}
		res.Created++
	}

	if err := store.Synchronize(ctx); err != nil {
		return res, fmt.Errorf("synchronize: %w", err)
	}

	return res, nil
}
