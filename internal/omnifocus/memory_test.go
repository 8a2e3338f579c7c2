package omnifocus

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_ProjectsBelowRoot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	m.AddProject("Work////Redmine////Website", "#1 - Login", "n1")
	m.AddProject("Work////Redmine", "#2 - Root level", "n2")
	m.AddProject("Work////Other", "#3 - Elsewhere", "n3")
	m.AddProject("", "Inbox project", "")

	projects, err := m.Projects(ctx, "Work////Redmine")
	if err != nil {
		t.Fatalf("Projects() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("Projects() returned %d projects, want 2: %+v", len(projects), projects)
	}

	byName := map[string]string{}
	for _, p := range projects {
		byName[p.Name] = p.Folder
	}
	if got := byName["#1 - Login"]; got != "Website" {
		t.Errorf("folder of #1 = %q, want %q", got, "Website")
	}
	if got, ok := byName["#2 - Root level"]; !ok || got != "" {
		t.Errorf("folder of #2 = %q (present %v), want root", got, ok)
	}
}

func TestMemory_MissingRoot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	m.AddProject("Work", "#1 - Login", "")

	projects, err := m.Projects(ctx, "Work////Redmine")
	if err != nil {
		t.Fatalf("Projects() error = %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("Projects() = %+v, want none", projects)
	}

	folders, err := m.Folders(ctx, "Work////Redmine")
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("Folders() = %+v, want none", folders)
	}
}

func TestMemory_Folders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	m.AddFolder("Root////A////B")
	m.AddFolder("Root////C")

	folders, err := m.Folders(ctx, "Root")
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}

	want := map[string]string{"A": "A", "B": "A////B", "C": "C"}
	if len(folders) != len(want) {
		t.Fatalf("Folders() returned %d, want %d: %+v", len(folders), len(want), folders)
	}
	for _, f := range folders {
		if want[f.Name] != f.Path {
			t.Errorf("folder %q path = %q, want %q", f.Name, f.Path, want[f.Name])
		}
	}
}

func TestMemory_DeleteFolderCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemory()
	id := m.AddFolder("Root////A")
	m.AddProject("Root////A////B", "#1 - Deep", "")
	m.AddProject("Root////C", "#2 - Kept", "")

	if err := m.DeleteFolder(ctx, id); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	projects, _ := m.Projects(ctx, "Root")
	if len(projects) != 1 || projects[0].Name != "#2 - Kept" {
		t.Errorf("Projects() after delete = %+v, want only #2", projects)
	}
	folders, _ := m.Folders(ctx, "Root")
	if len(folders) != 1 || folders[0].Name != "C" {
		t.Errorf("Folders() after delete = %+v, want only C", folders)
	}
}

func TestMemory_UnknownIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"delete project", func() error { return m.DeleteProject(ctx, "p99") }},
		{"delete folder", func() error { return m.DeleteFolder(ctx, "f99") }},
		{"update project", func() error { return m.UpdateProject(ctx, "p99", "x", "y") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemory_CreateAndUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	if err := m.CreateProject(ctx, "Root////Website", "#1 - Old", "old"); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	projects, _ := m.Projects(ctx, "Root")
	if len(projects) != 1 {
		t.Fatalf("Projects() = %+v, want 1", projects)
	}
	if err := m.UpdateProject(ctx, projects[0].ID, "#1 - New", "new"); err != nil {
		t.Fatalf("UpdateProject() error = %v", err)
	}
	projects, _ = m.Projects(ctx, "Root")
	if projects[0].Name != "#1 - New" || projects[0].Note != "new" {
		t.Errorf("project after update = %+v", projects[0])
	}
	if projects[0].Folder != "Website" {
		t.Errorf("project folder = %q, want Website", projects[0].Folder)
	}
}

func TestMemory_Fail(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	m := &Memory{Fail: map[string]error{"Synchronize": boom}}

	if err := m.Synchronize(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Synchronize() = %v, want boom", err)
	}
	if m.Synced() != 0 {
		t.Errorf("Synced() = %d, want 0", m.Synced())
	}
}
