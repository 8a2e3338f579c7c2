package omnifocus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/raphi011/redfocus/internal/reconcile"
)

// ErrNotFound is returned by Memory for unknown ids.
var ErrNotFound = errors.New("not found")

type memFolder struct {
	id     string
	name   string
	parent string // "" = document
}

type memProject struct {
	id     string
	name   string
	note   string
	folder string // "" = document
}

// Memory is an in-memory reconcile.Store with the same folder semantics as
// the OmniFocus document. The zero value is ready to use.
type Memory struct {
	mu       sync.Mutex
	nextID   int
	folders  []*memFolder
	projects []*memProject
	synced   int

	// Fail makes the named operation ("DeleteProject", "CreateProject", ...)
	// return the mapped error.
	Fail map[string]error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) fail(op string) error {
	if err, ok := m.Fail[op]; ok {
		return err
	}
	return nil
}

func (m *Memory) newID(prefix string) string {
	m.nextID++
	return prefix + strconv.Itoa(m.nextID)
}

func (m *Memory) child(parent, name string) *memFolder {
	for _, f := range m.folders {
		if f.parent == parent && f.name == name {
			return f
		}
	}
	return nil
}

// lookup returns the id of the folder at path, "" for the document itself.
func (m *Memory) lookup(path string) (string, bool) {
	id := ""
	for _, name := range reconcile.SplitPath(path) {
		f := m.child(id, name)
		if f == nil {
			return "", false
		}
		id = f.id
	}
	return id, true
}

func (m *Memory) ensure(path string) string {
	id := ""
	for _, name := range reconcile.SplitPath(path) {
		f := m.child(id, name)
		if f == nil {
			f = &memFolder{id: m.newID("f"), name: name, parent: id}
			m.folders = append(m.folders, f)
		}
		id = f.id
	}
	return id
}

// AddFolder creates the folder at path (and its parents) and returns its id.
func (m *Memory) AddFolder(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensure(path)
}

// AddProject creates a project in the folder at path and returns its id.
func (m *Memory) AddProject(path, name, note string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &memProject{id: m.newID("p"), name: name, note: note, folder: m.ensure(path)}
	m.projects = append(m.projects, p)
	return p.id
}

// relPath returns the path of folder id relative to root id, and whether
// it lies below root at all.
func (m *Memory) relPath(id, root string) (string, bool) {
	var names []string
	for id != root {
		if id == "" {
			return "", false
		}
		f := m.folderByID(id)
		if f == nil {
			return "", false
		}
		names = append(names, f.name)
		id = f.parent
	}
	slices.Reverse(names)
	return reconcile.JoinPath(names...), true
}

func (m *Memory) folderByID(id string) *memFolder {
	for _, f := range m.folders {
		if f.id == id {
			return f
		}
	}
	return nil
}

// Projects returns all projects below root.
func (m *Memory) Projects(_ context.Context, root string) ([]reconcile.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Projects"); err != nil {
		return nil, err
	}
	rootID, ok := m.lookup(root)
	if !ok {
		return nil, nil
	}
	var out []reconcile.Project
	for _, p := range m.projects {
		rel, ok := m.relPath(p.folder, rootID)
		if !ok {
			continue
		}
		out = append(out, reconcile.Project{ID: p.id, Name: p.name, Note: p.note, Folder: rel})
	}
	return out, nil
}

// Folders returns all folders below root, excluding root itself.
func (m *Memory) Folders(_ context.Context, root string) ([]reconcile.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Folders"); err != nil {
		return nil, err
	}
	rootID, ok := m.lookup(root)
	if !ok {
		return nil, nil
	}
	var out []reconcile.Folder
	for _, f := range m.folders {
		if f.id == rootID {
			continue
		}
		rel, ok := m.relPath(f.id, rootID)
		if !ok {
			continue
		}
		out = append(out, reconcile.Folder{ID: f.id, Name: f.name, Path: rel})
	}
	return out, nil
}

// DeleteProject deletes a project by id.
func (m *Memory) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteProject"); err != nil {
		return err
	}
	i := slices.IndexFunc(m.projects, func(p *memProject) bool { return p.id == id })
	if i < 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	m.projects = slices.Delete(m.projects, i, i+1)
	return nil
}

// DeleteFolder deletes a folder with all folders and projects below it.
func (m *Memory) DeleteFolder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteFolder"); err != nil {
		return err
	}
	if m.folderByID(id) == nil {
		return fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	gone := map[string]bool{}
	for _, f := range m.folders {
		if _, below := m.relPath(f.id, id); below {
			gone[f.id] = true
		}
	}
	m.folders = slices.DeleteFunc(m.folders, func(f *memFolder) bool { return gone[f.id] })
	m.projects = slices.DeleteFunc(m.projects, func(p *memProject) bool { return gone[p.folder] })
	return nil
}

// UpdateProject renames a project and replaces its note.
func (m *Memory) UpdateProject(_ context.Context, id, name, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateProject"); err != nil {
		return err
	}
	for _, p := range m.projects {
		if p.id == id {
			p.name, p.note = name, note
			return nil
		}
	}
	return fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// CreateProject creates a project in the folder at path, creating missing folders.
func (m *Memory) CreateProject(_ context.Context, path, name, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateProject"); err != nil {
		return err
	}
	p := &memProject{id: m.newID("p"), name: name, note: note, folder: m.ensure(path)}
	m.projects = append(m.projects, p)
	return nil
}

// Synchronize counts synchronizations.
func (m *Memory) Synchronize(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Synchronize"); err != nil {
		return err
	}
	m.synced++
	return nil
}

// Synced returns how often Synchronize succeeded.
func (m *Memory) Synced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.synced
}

var _ reconcile.Store = (*Memory)(nil)
