package omnifocus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/raphi011/redfocus/internal/cmd"
	"github.com/raphi011/redfocus/internal/reconcile"
)

// ErrNotRunning is returned when OmniFocus is not running.
var ErrNotRunning = errors.New("OmniFocus is not running")

// Runner executes a JavaScript for Automation script with one argument and
// returns its stdout.
type Runner func(ctx context.Context, script, arg string) ([]byte, error)

// App is a reconcile.Store backed by the OmniFocus default document.
type App struct {
	run Runner
}

// New returns an App that talks to OmniFocus through osascript.
func New() *App {
	return &App{run: osascript}
}

// NewWithRunner returns an App using run to execute scripts.
func NewWithRunner(run Runner) *App {
	return &App{run: run}
}

// CheckOsascript verifies that osascript is available.
func CheckOsascript() error {
	if _, err := exec.LookPath("osascript"); err != nil {
		return errors.New("osascript not found: OmniFocus sync requires macOS")
	}
	return nil
}

func osascript(ctx context.Context, script, arg string) ([]byte, error) {
	return cmd.OutputInputContext(ctx, "", script, "osascript", "-l", "JavaScript", "-", arg)
}

// call runs script with args encoded as JSON and decodes the JSON result
// into out when out is non-nil.
func (a *App) call(ctx context.Context, script string, args, out any) error {
	arg, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode script args: %w", err)
	}
	res, err := a.run(ctx, scriptPrelude+script, string(arg))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bytes.TrimSpace(res), out); err != nil {
		return fmt.Errorf("parse osascript output: %w", err)
	}
	return nil
}

// IsRunning reports whether OmniFocus is running. It does not launch it.
func (a *App) IsRunning(ctx context.Context) (bool, error) {
	var res struct {
		Running bool `json:"running"`
	}
	if err := a.call(ctx, scriptIsRunning, struct{}{}, &res); err != nil {
		return false, fmt.Errorf("check OmniFocus: %w", err)
	}
	return res.Running, nil
}

// RequireRunning returns ErrNotRunning unless OmniFocus is running.
func (a *App) RequireRunning(ctx context.Context) error {
	running, err := a.IsRunning(ctx)
	if err != nil {
		return err
	}
	if !running {
		return ErrNotRunning
	}
	return nil
}

type snapshot struct {
	Projects []reconcile.Project `json:"projects"`
	Folders  []reconcile.Folder  `json:"folders"`
}

func (a *App) snapshot(ctx context.Context, root string) (snapshot, error) {
	var s snapshot
	err := a.call(ctx, scriptSnapshot, map[string]string{"root": root}, &s)
	return s, err
}

// Projects returns all projects below root, at any depth.
// A missing root yields no projects.
func (a *App) Projects(ctx context.Context, root string) ([]reconcile.Project, error) {
	s, err := a.snapshot(ctx, root)
	if err != nil {
		return nil, err
	}
	return s.Projects, nil
}

// Folders returns all folders below root, at any depth.
func (a *App) Folders(ctx context.Context, root string) ([]reconcile.Folder, error) {
	s, err := a.snapshot(ctx, root)
	if err != nil {
		return nil, err
	}
	return s.Folders, nil
}

// DeleteProject deletes the project with the given id.
func (a *App) DeleteProject(ctx context.Context, id string) error {
	return a.call(ctx, scriptDeleteProject, map[string]string{"id": id}, nil)
}

// DeleteFolder deletes the folder with the given id and everything in it.
func (a *App) DeleteFolder(ctx context.Context, id string) error {
	return a.call(ctx, scriptDeleteFolder, map[string]string{"id": id}, nil)
}

// UpdateProject renames the project and replaces its note.
func (a *App) UpdateProject(ctx context.Context, id, name, note string) error {
	return a.call(ctx, scriptUpdateProject, map[string]string{"id": id, "name": name, "note": note}, nil)
}

// CreateProject creates a project in the folder at path, creating missing folders.
func (a *App) CreateProject(ctx context.Context, path, name, note string) error {
	var res struct {
		ID string `json:"id"`
	}
	return a.call(ctx, scriptCreateProject, map[string]string{"path": path, "name": name, "note": note}, &res)
}

// Synchronize flushes the document to the sync server.
func (a *App) Synchronize(ctx context.Context) error {
	return a.call(ctx, scriptSynchronize, struct{}{}, nil)
}

var _ reconcile.Store = (*App)(nil)
