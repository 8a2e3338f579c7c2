package main

import (
	"strings"
	"testing"
	"time"

	"github.com/raphi011/redfocus/internal/history"
	"github.com/raphi011/redfocus/internal/reconcile"
)

func TestHistoryRow(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 4, 9, 30, 0, 0, time.Local)

	row := historyRow(history.Entry{
		Time:   at,
		Root:   "Work////Redmine",
		Issues: 12,
		Result: reconcile.Result{Created: 2},
	})
	if row[0] != "2026-03-04 09:30:00" {
		t.Errorf("time = %q", row[0])
	}
	if row[1] != "Work / Redmine" {
		t.Errorf("folder = %q", row[1])
	}
	if row[2] != "12" {
		t.Errorf("issues = %q", row[2])
	}
	if !strings.Contains(row[3], "2 created") {
		t.Errorf("result = %q, want created count", row[3])
	}

	failed := historyRow(history.Entry{Time: at, Root: "Work", Error: "fetch issues: unauthorized"})
	if !strings.Contains(failed[3], "failed: fetch issues: unauthorized") {
		t.Errorf("result = %q, want failure", failed[3])
	}
}
