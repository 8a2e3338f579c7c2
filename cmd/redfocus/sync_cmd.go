package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/redfocus/internal/history"
	"github.com/raphi011/redfocus/internal/log"
	"github.com/raphi011/redfocus/internal/omnifocus"
	"github.com/raphi011/redfocus/internal/output"
	"github.com/raphi011/redfocus/internal/reconcile"
	"github.com/raphi011/redfocus/internal/storage"
	"github.com/raphi011/redfocus/internal/ui/progress"
	"github.com/raphi011/redfocus/internal/ui/prompt"
	"github.com/raphi011/redfocus/internal/ui/static"
)

// syncStore is an OmniFocus document that can report whether it is open.
type syncStore interface {
	reconcile.Store
	RequireRunning(ctx context.Context) error
}

// newStore connects to OmniFocus. Replaced in tests.
var newStore = func() syncStore {
	return omnifocus.New()
}

// lockFileName guards against overlapping syncs, e.g. from cron and a shell.
const lockFileName = "sync.lock"

type syncOptions struct {
	remote      remoteFlags
	dryRun      bool
	interactive bool
	json        bool
}

func newSyncCmd() *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:     "sync [folder issues-url url-prefix user password]",
		Short:   "Mirror Redmine issues into OmniFocus",
		GroupID: GroupSync,
		Long: `Mirror Redmine issues into OmniFocus projects.

Each issue becomes a project named "#<id> - <subject>" in the folder
<folder>////<redmine project>. Projects below the root folder that do not
match an issue are deleted, folders that do not match a Redmine project are
deleted, stale names and notes are updated and missing projects created.
OmniFocus is synchronized afterwards.

Settings come from positional arguments, flags, REDFOCUS_* environment
variables and the config file, in that order of precedence.

If OmniFocus is not running, nothing happens and the exit status is 0.`,
		Example: `  redfocus sync                                  # use the config file
  redfocus sync --dry-run                        # show what would change
  redfocus sync -i                               # confirm before deleting
  redfocus sync Work////Redmine https://rm/issues.xml?assigned_to_id=me https://rm/issues alice s3cret`,
		Args: cobra.MaximumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), args, opts)
		},
	}

	opts.remote.register(cmd, true)
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Show the plan without changing OmniFocus")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Confirm before deleting projects or folders")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the sync report as JSON")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "interactive")

	return cmd
}

func runSync(ctx context.Context, args []string, opts syncOptions) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	cfg := resolveSettings(configFromContext(ctx), args, opts.remote)
	if err := cfg.ValidateSync(); err != nil {
		return err
	}

	store := newStore()
	if err := store.RequireRunning(ctx); err != nil {
		if errors.Is(err, omnifocus.ErrNotRunning) {
			l.Println("OmniFocus is not running, skipping sync")
			return nil
		}
		return err
	}

	dir, err := storage.StateDir()
	if err != nil {
		return err
	}
	lock := storage.NewFileLock(filepath.Join(dir, lockFileName))
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return errors.New("another sync is already running")
		}
		return fmt.Errorf("acquire sync lock: %w", err)
	}
	defer lock.Unlock()

	if opts.interactive && !isTerminal(os.Stdin) {
		return fmt.Errorf("--interactive requires a terminal")
	}

	var spinner *progress.Spinner
	if !opts.json && !l.IsVerbose() && !l.IsQuiet() && isTerminal(os.Stderr) {
		spinner = progress.NewSpinner(os.Stderr)
	}

	src := newSource(cfg)
	fetch := sourceFunc(func(ctx context.Context) ([]reconcile.Issue, error) {
		spinner.Start("Fetching issues from Redmine")
		issues, err := src.Fetch(ctx)
		if err == nil {
			spinner.Update(fmt.Sprintf("Syncing %d issues with OmniFocus", len(issues)))
		}
		return issues, err
	})

	syncOpts := reconcile.Options{Root: cfg.Folder, DryRun: opts.dryRun}
	if opts.interactive {
		syncOpts.Confirm = func(ctx context.Context, plan reconcile.Plan) (bool, error) {
			spinner.Stop()
			fmt.Fprint(l.Writer(), static.RenderPlan(cfg.Folder, plan))
			res, err := prompt.Confirm(fmt.Sprintf("Delete %d projects and %d folders?",
				len(plan.DeleteProjects), len(plan.DeleteFolders)))
			if err != nil {
				return false, err
			}
			if res.Confirmed {
				spinner.Start("Applying changes")
			}
			return res.Confirmed, nil
		}
	}

	report, err := reconcile.Sync(ctx, fetch, store, syncOpts)
	spinner.Stop()
	if report != nil && report.Issues == 0 && report.Plan.Destructive() {
		l.Printf("Warning: Redmine returned no issues, check the credentials and issues URL\n")
	}
	if errors.Is(err, reconcile.ErrAborted) {
		l.Println("Aborted, nothing changed")
		return nil
	}
	if !opts.dryRun {
		if herr := history.Record(filepath.Join(dir, history.FileName), report, cfg.Folder, err); herr != nil {
			l.Printf("Warning: failed to record sync history: %v\n", herr)
		}
	}
	if err != nil {
		return err
	}

	return printReport(out, cfg.Folder, report, opts)
}

func printReport(out *output.Printer, root string, report *reconcile.Report, opts syncOptions) error {
	if opts.json {
		return out.JSON(report)
	}
	if opts.dryRun {
		if report.Plan.Empty() {
			out.Println(static.RenderResult(reconcile.Result{}))
			return nil
		}
		out.Print(static.RenderPlan(root, report.Plan))
		return nil
	}
	out.Println(static.RenderResult(report.Result))
	return nil
}

// sourceFunc adapts a function to reconcile.Source.
type sourceFunc func(ctx context.Context) ([]reconcile.Issue, error)

func (f sourceFunc) Fetch(ctx context.Context) ([]reconcile.Issue, error) {
	return f(ctx)
}
