// Package history records past sync runs so `redfocus history` can show
// when OmniFocus was last brought up to date and what changed.
package history

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/raphi011/redfocus/internal/reconcile"
	"github.com/raphi011/redfocus/internal/storage"
)

// MaxEntries is the number of runs kept on disk.
const MaxEntries = 50

// FileName is the history file inside the state directory.
const FileName = "history.json"

// Entry is one sync run.
type Entry struct {
	Time   time.Time        `json:"time"`
	Root   string           `json:"root"`
	Issues int              `json:"issues"`
	Result reconcile.Result `json:"result"`
	Error  string           `json:"error,omitempty"`
}

// History holds runs, newest first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Path returns the default history file path.
func Path() (string, error) {
	dir, err := storage.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the history at path. A missing or corrupted file yields an
// empty history.
func Load(path string) (*History, error) {
	var h History
	err := storage.LoadJSON(path, &h)
	switch {
	case err == nil:
		return &h, nil
	case errors.Is(err, os.ErrNotExist):
		return &History{}, nil
	case errors.Is(err, os.ErrPermission):
		return nil, err
	default:
		// Corrupted - start fresh
		return &History{}, nil
	}
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	return storage.SaveJSON(path, h)
}

// Add prepends e and drops runs beyond MaxEntries.
func (h *History) Add(e Entry) {
	h.Entries = append([]Entry{e}, h.Entries...)
	if len(h.Entries) > MaxEntries {
		h.Entries = h.Entries[:MaxEntries]
	}
}

// Last returns the most recent run, or false if there is none.
func (h *History) Last() (Entry, bool) {
	if len(h.Entries) == 0 {
		return Entry{}, false
	}
	return h.Entries[0], true
}

// Record appends the outcome of a sync run to the history at path.
// runErr may be nil.
func Record(path string, report *reconcile.Report, root string, runErr error) error {
	h, err := Load(path)
	if err != nil {
		return err
	}
	e := Entry{Time: time.Now(), Root: root}
	if report != nil {
		e.Issues = report.Issues
		e.Result = report.Result
	}
	if runErr != nil {
		e.Error = runErr.Error()
	}
	h.Add(e)
	return h.Save(path)
}
