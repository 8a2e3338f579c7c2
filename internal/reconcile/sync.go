package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/redfocus/internal/log"
)

// ErrAborted is returned by Sync when the confirm hook rejects the plan.
var ErrAborted = errors.New("sync aborted")

// Source provides the remote issue list.
type Source interface {
	Fetch(ctx context.Context) ([]Issue, error)
}

// Options configures a Sync run.
type Options struct {
	// Root is the folder path all projects live below. Required.
	Root string

	// DryRun computes the plan without touching the store.
	DryRun bool

	// Confirm is called before applying a destructive plan.
	// Returning false aborts the run with ErrAborted.
	Confirm func(ctx context.Context, plan Plan) (bool, error)
}

// Report describes a finished Sync run.
type Report struct {
	Issues  int    `json:"issues"`
	Plan    Plan   `json:"plan"`
	Result  Result `json:"result"`
	Applied bool   `json:"applied"`
}

// Sync fetches the remote issues, diffs them against the store contents
// below opts.Root and applies the resulting plan. The store is synchronized
// even when the plan is empty.
func Sync(ctx context.Context, src Source, store Store, opts Options) (*Report, error) {
	if opts.Root == "" {
		return nil, errors.New("root folder is required")
	}
	l := log.FromContext(ctx)

	issues, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch issues: %w", err)
	}
	l.Debug("fetched issues", "count", len(issues))

	projects, err := store.Projects(ctx, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("list projects in %q: %w", opts.Root, err)
	}
	folders, err := store.Folders(ctx, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("list folders in %q: %w", opts.Root, err)
	}
	l.Debug("local snapshot", "projects", len(projects), "folders", len(folders))

	plan := Diff(issues, projects, folders)
	report := &Report{Issues: len(issues), Plan: plan}

	if opts.DryRun {
		return report, nil
	}

	if plan.Destructive() && opts.Confirm != nil {
		ok, err := opts.Confirm(ctx, plan)
		if err != nil {
			return report, fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			return report, ErrAborted
		}
	}

	res, err := Apply(ctx, store, opts.Root, plan)
	report.Result = res
	if err != nil {
		return report, err
	}
	report.Applied = true
	return report, nil
}
