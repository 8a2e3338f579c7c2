package reconcile_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/redfocus/internal/omnifocus"
	"github.com/raphi011/redfocus/internal/reconcile"
)

const root = "Work////Redmine"

type staticSource struct {
	issues []reconcile.Issue
	err    error
}

func (s staticSource) Fetch(context.Context) ([]reconcile.Issue, error) {
	return s.issues, s.err
}

func newIssue(id, project, subject string) reconcile.Issue {
	return reconcile.Issue{ID: id, URL: "http://redmine/issues/" + id, Project: project, Subject: subject}
}

func names(t *testing.T, store reconcile.Store) []string {
	t.Helper()
	projects, err := store.Projects(context.Background(), root)
	require.NoError(t, err)
	var out []string
	for _, p := range projects {
		out = append(out, reconcile.JoinPath(p.Folder, p.Name))
	}
	sort.Strings(out)
	return out
}

func TestSync_MirrorsIssues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := omnifocus.NewMemory()
	store.AddProject("Work", "Unrelated", "")
	store.AddProject(root+"////Website", "#1 - Old subject", "")
	store.AddProject(root+"////Website", "Stray note", "")
	store.AddProject(root+"////Archive", "#7 - Closed", "")

	src := staticSource{issues: []reconcile.Issue{
		newIssue("1", "Website", "Login"),
		newIssue("2", "Billing", "Invoice"),
	}}

	report, err := reconcile.Sync(ctx, src, store, reconcile.Options{Root: root})
	require.NoError(t, err)
	assert.True(t, report.Applied)
	assert.Equal(t, 2, report.Issues)
	assert.Equal(t, reconcile.Result{DeletedProjects: 1, DeletedFolders: 1, Updated: 1, Created: 1}, report.Result)
	assert.Equal(t, 1, store.Synced())

	assert.Equal(t, []string{"Billing////#2 - Invoice", "Website////#1 - Login"}, names(t, store))

	// Outside the root nothing changes
	outside, err := store.Projects(ctx, "Work")
	require.NoError(t, err)
	assert.Len(t, outside, 3)

	// A second run is a no-op apart from synchronizing
	report, err = reconcile.Sync(ctx, src, store, reconcile.Options{Root: root})
	require.NoError(t, err)
	assert.True(t, report.Plan.Empty())
	assert.Equal(t, 2, store.Synced())
}

func TestSync_Converges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := omnifocus.NewMemory()
	store.AddProject(root+"////A////Deep", "#3 - Moved away", "")
	store.AddProject(root, "#4 - At root", "")

	issues := []reconcile.Issue{
		newIssue("3", "B", "Moved away"),
		newIssue("4", "C", "At root"),
		newIssue("5", "", "No project"),
	}
	_, err := reconcile.Sync(ctx, staticSource{issues: issues}, store, reconcile.Options{Root: root})
	require.NoError(t, err)

	projects, err := store.Projects(ctx, root)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, p := range projects {
		id, ok := reconcile.IssueIDFromName(p.Name)
		require.True(t, ok, "project %q has no id", p.Name)
		ids[id] = true
	}
	assert.Equal(t, map[string]bool{"3": true, "4": true, "5": true}, ids)

	folders, err := store.Folders(ctx, root)
	require.NoError(t, err)
	for _, f := range folders {
		assert.Contains(t, []string{"B", "C"}, f.Name)
	}
}

func TestSync_DryRun(t *testing.T) {
	t.Parallel()

	store := omnifocus.NewMemory()
	store.AddProject(root, "Stray", "")

	report, err := reconcile.Sync(context.Background(),
		staticSource{issues: []reconcile.Issue{newIssue("1", "A", "x")}},
		store, reconcile.Options{Root: root, DryRun: true})
	require.NoError(t, err)

	assert.False(t, report.Applied)
	assert.Len(t, report.Plan.DeleteProjects, 1)
	assert.Len(t, report.Plan.Creates, 1)
	assert.Equal(t, []string{"Stray"}, names(t, store))
	assert.Zero(t, store.Synced())
}

func TestSync_ConfirmRejects(t *testing.T) {
	t.Parallel()

	store := omnifocus.NewMemory()
	store.AddProject(root, "Stray", "")

	var asked bool
	_, err := reconcile.Sync(context.Background(), staticSource{}, store, reconcile.Options{
		Root: root,
		Confirm: func(_ context.Context, plan reconcile.Plan) (bool, error) {
			asked = true
			return false, nil
		},
	})
	assert.ErrorIs(t, err, reconcile.ErrAborted)
	assert.True(t, asked)
	assert.Equal(t, []string{"Stray"}, names(t, store))
}

func TestSync_ConfirmSkippedForNonDestructive(t *testing.T) {
	t.Parallel()

	store := omnifocus.NewMemory()
	_, err := reconcile.Sync(context.Background(),
		staticSource{issues: []reconcile.Issue{newIssue("1", "A", "x")}},
		store, reconcile.Options{
			Root: root,
			Confirm: func(context.Context, reconcile.Plan) (bool, error) {
				t.Error("Confirm called for a plan without deletions")
				return false, nil
			},
		})
	require.NoError(t, err)
}

func TestSync_Errors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := reconcile.Sync(context.Background(), staticSource{}, omnifocus.NewMemory(), reconcile.Options{})
		assert.Error(t, err)
	})

	t.Run("fetch fails", func(t *testing.T) {
		t.Parallel()
		_, err := reconcile.Sync(context.Background(), staticSource{err: boom}, omnifocus.NewMemory(), reconcile.Options{Root: root})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("store listing fails", func(t *testing.T) {
		t.Parallel()
		store := &omnifocus.Memory{Fail: map[string]error{"Folders": boom}}
		_, err := reconcile.Sync(context.Background(), staticSource{}, store, reconcile.Options{Root: root})
		assert.ErrorIs(t, err, boom)
	})
}

func TestApply_StopsAtFirstError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	store := &omnifocus.Memory{Fail: map[string]error{"CreateProject": boom}}
	store.AddProject(root, "Stray", "")
	store.AddProject(root, "#1 - Old", "")

	projects, err := store.Projects(context.Background(), root)
	require.NoError(t, err)
	plan := reconcile.Diff([]reconcile.Issue{newIssue("1", "", "New"), newIssue("2", "A", "x")}, projects, nil)

	res, err := reconcile.Apply(context.Background(), store, root, plan)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, reconcile.Result{DeletedProjects: 1, Updated: 1}, res)
	assert.Equal(t, 2, res.Total())
	assert.Zero(t, store.Synced())
}
