// Package lifecycle manages the set of open projects, the current selection, and how each
// project's graph reaches persistence (draft saves, final saves, auto-save).
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/logger"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/metrics"
)

// ErrNoCurrentProject is returned by operations on the current project when none is selected.
var ErrNoCurrentProject = fmt.Errorf("%w: no current project", domain.ErrConflict)

// Repository is the persistence boundary. Load returns domain.ErrNotFound for unknown ids.
type Repository interface {
	Load(ctx context.Context, id string) (*domain.ProjectSnapshot, error)
	Save(ctx context.Context, snap *domain.ProjectSnapshot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Project, error)
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithProjectIDs replaces the project id source (default: swcproj-NNNNN-NNNN text ids).
func WithProjectIDs(next func() (string, error)) Option {
	return func(m *Manager) { m.newID = next }
}

// WithStoreOptions passes options to every store the manager creates.
func WithStoreOptions(opts ...store.Option) Option {
	return func(m *Manager) { m.storeOpts = append(m.storeOpts, opts...) }
}

type Manager struct {
	repo      Repository
	now       func() time.Time
	newID     func() (string, error)
	storeOpts []store.Option

	mu       sync.RWMutex
	projects map[string]*store.Store
	order    []string
	current  string

	// dirtyMu is separate from mu: the store commit hook takes it and must never wait on mu.
	dirtyMu sync.Mutex
	dirty   map[string]bool
}

func NewManager(repo Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() (string, error) { return utils.NewTextID(utils.PrefixProject) },
		projects: map[string]*store.Store{},
		dirty:    map[string]bool{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) newStore(p domain.Project) *store.Store {
	return store.New(p, m.withHook()...)
}

func (m *Manager) withHook() []store.Option {
	opts := append([]store.Option{store.WithClock(m.now)}, m.storeOpts...)
	return append(opts, store.WithOnCommit(m.markDirty))
}

// CreateProject adds an empty draft project and makes it current. An empty version selects
// domain.DefaultAutosarVersion.
func (m *Manager) CreateProject(name, autosarVersion string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, domain.NewValidationError(domain.KindProject, "name", "name is required")
	}
	if autosarVersion == "" {
		autosarVersion = domain.DefaultAutosarVersion
	}
	if _, ok := domain.SupportedAutosarVersions[autosarVersion]; !ok {
		return domain.Project{}, domain.NewValidationError(domain.KindProject, "autosar_version", "unsupported AUTOSAR version "+autosarVersion)
	}

	m.mu.Lock()
	id, err := m.freeID()
	if err != nil {
		m.mu.Unlock()
		return domain.Project{}, err
	}
	now := m.now()
	p := domain.Project{
		ID:              id,
		Name:            name,
		AutosarVersion:  autosarVersion,
		IsDraft:         true,
		AutoSaveEnabled: true,
		CreatedAt:       now,
		LastModified:    now,
	}
	m.add(p.ID, m.newStore(p))
	m.current = p.ID
	m.mu.Unlock()

	m.markDirty(p.ID)
	return p, nil
}

// freeID draws ids until one is not open. Caller holds mu.
func (m *Manager) freeID() (string, error) {
	for i := 0; i < 16; i++ {
		id, err := m.newID()
		if err != nil {
			return "", fmt.Errorf("failed to generate project id: %w", err)
		}
		if _, taken := m.projects[id]; !taken {
			return id, nil
		}
	}
	return "", domain.NewConflictError(domain.KindProject, "", "could not allocate a free project id")
}

// add registers st under id. Caller holds mu.
func (m *Manager) add(id string, st *store.Store) {
	if _, ok := m.projects[id]; !ok {
		m.order = append(m.order, id)
	}
	m.projects[id] = st
}

// Projects returns the open projects in the order they were opened.
func (m *Manager) Projects() []domain.Project {
	m.mu.RLock()
	stores := make([]*store.Store, 0, len(m.order))
	for _, id := range m.order {
		stores = append(stores, m.projects[id])
	}
	m.mu.RUnlock()

	out := make([]domain.Project, 0, len(stores))
	for _, st := range stores {
		out = append(out, st.Project())
	}
	return out
}

func (m *Manager) Project(id string) (domain.Project, error) {
	st, err := m.Store(id)
	if err != nil {
		return domain.Project{}, err
	}
	return st.Project(), nil
}

// Store returns the entity store of an open project.
func (m *Manager) Store(id string) (*store.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.projects[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindProject, id)
	}
	return st, nil
}

func (m *Manager) SetCurrent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return domain.NewNotFoundError(domain.KindProject, id)
	}
	m.current = id
	return nil
}

// Current returns the store of the selected project, or ErrNoCurrentProject.
func (m *Manager) Current() (*store.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == "" {
		return nil, ErrNoCurrentProject
	}
	return m.projects[m.current], nil
}

// CurrentID returns the selected project id, or "" when none is selected.
func (m *Manager) CurrentID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// RemoveProject closes a project. With purge the persisted copy is deleted as well; a project
// that is only persisted can be purged without opening it first.
func (m *Manager) RemoveProject(ctx context.Context, id string, purge bool) error {
	m.mu.RLock()
	_, open := m.projects[id]
	m.mu.RUnlock()

	if !open && !purge {
		return domain.NewNotFoundError(domain.KindProject, id)
	}
	if purge {
		err := m.repo.Delete(ctx, id)
		if err != nil && !(open && errors.Is(err, domain.ErrNotFound)) {
			return err
		}
	}

	m.mu.Lock()
	delete(m.projects, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.current == id {
		m.current = ""
	}
	m.mu.Unlock()

	m.clearDirty(id)
	logger.NewLogger(ctx).LogInfof("remove_project", "removed project %s (purge=%t)", id, purge)
	return nil
}

// OpenProject loads a persisted project into the open set and makes it current. A project that
// is already open is only selected; its in-memory state wins.
func (m *Manager) OpenProject(ctx context.Context, id string) (domain.Project, error) {
	if st, err := m.Store(id); err == nil {
		if err := m.SetCurrent(id); err != nil {
			return domain.Project{}, err
		}
		return st.Project(), nil
	}

	snap, err := m.repo.Load(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	st, err := store.NewFromSnapshot(*snap, m.withHook()...)
	if err != nil {
		return domain.Project{}, fmt.Errorf("persisted project %s is inconsistent: %w", id, err)
	}

	m.mu.Lock()
	if existing, ok := m.projects[id]; ok {
		// opened concurrently
		st = existing
	} else {
		m.add(id, st)
	}
	m.current = id
	m.mu.Unlock()

	m.clearDirty(id)
	return st.Project(), nil
}

// ImportProject opens a snapshot that did not come from persistence (a YAML or JSON file).
// A snapshot without a project id gets a fresh one. The imported project is current and dirty.
func (m *Manager) ImportProject(snap domain.ProjectSnapshot) (domain.Project, error) {
	m.mu.Lock()
	if snap.Project.ID == "" {
		id, err := m.freeID()
		if err != nil {
			m.mu.Unlock()
			return domain.Project{}, err
		}
		snap.Project.ID = id
	} else if _, taken := m.projects[snap.Project.ID]; taken {
		m.mu.Unlock()
		return domain.Project{}, domain.NewConflictError(domain.KindProject, snap.Project.ID, "a project with this id is already open")
	}
	m.mu.Unlock()

	if snap.Project.AutosarVersion == "" {
		snap.Project.AutosarVersion = domain.DefaultAutosarVersion
	}
	if snap.Project.CreatedAt.IsZero() {
		snap.Project.CreatedAt = m.now()
	}
	if snap.Project.LastModified.IsZero() {
		snap.Project.LastModified = snap.Project.CreatedAt
	}
	st, err := store.NewFromSnapshot(snap, m.withHook()...)
	if err != nil {
		return domain.Project{}, err
	}

	m.mu.Lock()
	if _, taken := m.projects[snap.Project.ID]; taken {
		m.mu.Unlock()
		return domain.Project{}, domain.NewConflictError(domain.KindProject, snap.Project.ID, "a project with this id is already open")
	}
	m.add(snap.Project.ID, st)
	m.current = snap.Project.ID
	m.mu.Unlock()

	m.markDirty(snap.Project.ID)
	return st.Project(), nil
}

// SaveProjectAsDraft persists the current project with isDraft=true.
func (m *Manager) SaveProjectAsDraft(ctx context.Context) (domain.Project, error) {
	return m.save(ctx, m.CurrentID(), "draft", true)
}

// SaveProject persists the current project as final (isDraft=false).
func (m *Manager) SaveProject(ctx context.Context) (domain.Project, error) {
	return m.save(ctx, m.CurrentID(), "save", false)
}

// SaveDraft is SaveProjectAsDraft for an open project that need not be current.
func (m *Manager) SaveDraft(ctx context.Context, id string) (domain.Project, error) {
	return m.save(ctx, id, "draft", true)
}

// Save is SaveProject for an open project that need not be current.
func (m *Manager) Save(ctx context.Context, id string) (domain.Project, error) {
	return m.save(ctx, id, "save", false)
}

func (m *Manager) lookup(id string) (*store.Store, error) {
	if id == "" {
		return nil, ErrNoCurrentProject
	}
	return m.Store(id)
}

func (m *Manager) save(ctx context.Context, id, kind string, draft bool) (domain.Project, error) {
	st, err := m.lookup(id)
	if err != nil {
		return domain.Project{}, err
	}
	log := logger.NewLogger(ctx)

	// the draft flag and the LastModified stamp stay uncommitted unless the save succeeds
	saved, err := st.SaveAs(draft, func(snap domain.ProjectSnapshot) error {
		return m.repo.Save(ctx, &snap)
	})
	if err != nil {
		metrics.ProjectSaves.WithLabelValues(kind, "error").Inc()
		log.LogError("save_project", err)
		return domain.Project{}, fmt.Errorf("failed to persist project %s: %w", id, err)
	}
	metrics.ProjectSaves.WithLabelValues(kind, "ok").Inc()
	m.markClean(id, st, saved.LastModified)
	log.LogInfof("save_project", "saved project %s (draft=%t)", id, draft)
	return saved, nil
}

// AutoSave persists the current project without touching its draft status or timestamp. It
// does nothing when the project is clean or has auto-save disabled.
func (m *Manager) AutoSave(ctx context.Context) (bool, error) {
	return m.AutoSaveProject(ctx, m.CurrentID())
}

// AutoSaveProject is AutoSave for an open project that need not be current.
func (m *Manager) AutoSaveProject(ctx context.Context, id string) (bool, error) {
	st, err := m.lookup(id)
	if err != nil {
		return false, err
	}
	return m.autoSave(ctx, id, st)
}

func (m *Manager) autoSave(ctx context.Context, id string, st *store.Store) (bool, error) {
	if !st.Project().AutoSaveEnabled || !m.IsDirty(id) {
		return false, nil
	}
	snap := st.Snapshot()
	if err := m.repo.Save(ctx, &snap); err != nil {
		metrics.ProjectSaves.WithLabelValues("autosave", "error").Inc()
		return false, fmt.Errorf("failed to auto-save project %s: %w", id, err)
	}
	metrics.ProjectSaves.WithLabelValues("autosave", "ok").Inc()
	m.markClean(id, st, snap.Project.LastModified)
	return true, nil
}

// AutoSaveAll auto-saves every open dirty project. A failing project does not stop the others;
// the returned error joins every failure.
func (m *Manager) AutoSaveAll(ctx context.Context) (int, error) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.order))
	stores := make([]*store.Store, 0, len(m.order))
	for _, id := range m.order {
		ids = append(ids, id)
		stores = append(stores, m.projects[id])
	}
	m.mu.RUnlock()

	saved := 0
	var errs []error
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := m.autoSave(ctx, id, stores[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			saved++
		}
	}
	return saved, errors.Join(errs...)
}

// RefreshProject discards the in-memory state of the current project and reloads it from
// persistence.
func (m *Manager) RefreshProject(ctx context.Context) (domain.Project, error) {
	return m.Refresh(ctx, m.CurrentID())
}

// Refresh is RefreshProject for an open project that need not be current.
func (m *Manager) Refresh(ctx context.Context, id string) (domain.Project, error) {
	st, err := m.lookup(id)
	if err != nil {
		return domain.Project{}, err
	}
	snap, err := m.repo.Load(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if err := st.Restore(*snap); err != nil {
		return domain.Project{}, err
	}
	m.clearDirty(id)
	return st.Project(), nil
}

// IsDirty reports whether the project has changes that were not persisted.
func (m *Manager) IsDirty(id string) bool {
	m.dirtyMu.Lock()
	defer m.dirtyMu.Unlock()
	return m.dirty[id]
}

func (m *Manager) markDirty(id string) {
	m.dirtyMu.Lock()
	m.dirty[id] = true
	metrics.DirtyProjects.Set(float64(len(m.dirty)))
	m.dirtyMu.Unlock()
}

// markClean clears the flag only if nothing was committed after the saved snapshot was taken.
func (m *Manager) markClean(id string, st *store.Store, saved time.Time) {
	m.dirtyMu.Lock()
	defer m.dirtyMu.Unlock()
	if st.Project().LastModified.Equal(saved) {
		delete(m.dirty, id)
	}
	metrics.DirtyProjects.Set(float64(len(m.dirty)))
}

func (m *Manager) clearDirty(id string) {
	m.dirtyMu.Lock()
	delete(m.dirty, id)
	metrics.DirtyProjects.Set(float64(len(m.dirty)))
	m.dirtyMu.Unlock()
}

// Persisted lists the projects known to the repository, whether open or not.
func (m *Manager) Persisted(ctx context.Context) ([]domain.Project, error) {
	return m.repo.List(ctx)
}
