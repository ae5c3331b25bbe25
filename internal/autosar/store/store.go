// Package store holds one project's entity graph and is its only mutator.
//
// Every mutation runs against a private copy of the graph and replaces the live graph only
// when it succeeds, so a failed call leaves nothing behind and readers never see a
// half-applied cascade.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/naming"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/metrics"
)

type Store struct {
	mu       sync.RWMutex
	state    state
	ids      utils.IDGenerator
	now      func() time.Time
	onCommit func(projectID string)
}

type Option func(*Store)

func WithIDGenerator(g utils.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithOnCommit registers a hook that runs after every committed mutation, outside the lock.
func WithOnCommit(fn func(projectID string)) Option {
	return func(s *Store) { s.onCommit = fn }
}

// New creates a store for an empty project. The project's name and version are validated by
// the caller (see lifecycle.Manager.CreateProject).
func New(project domain.Project, opts ...Option) *Store {
	s := &Store{
		ids: utils.UUIDGenerator{},
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	s.state = newState(project)
	return s
}

// NewFromSnapshot builds a store from a persisted snapshot after checking every invariant.
func NewFromSnapshot(snap domain.ProjectSnapshot, opts ...Option) (*Store, error) {
	if err := CheckInvariants(snap); err != nil {
		return nil, err
	}
	s := New(snap.Project, opts...)
	s.state = stateFromSnapshot(snap)
	return s, nil
}

// Restore replaces the whole graph with snap. The project id must match.
// No LastModified stamp and no commit hook: restoring is not an edit.
func (s *Store) Restore(snap domain.ProjectSnapshot) error {
	if err := CheckInvariants(snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Project.ID != s.state.project.ID {
		return domain.NewIncompatibleError(domain.KindProject, snap.Project.ID, "snapshot belongs to another project")
	}
	s.state = stateFromSnapshot(snap)
	return nil
}

// mutate runs fn on a copy of the state and commits it if fn succeeds.
func (s *Store) mutate(op string, fn func(st *state) error) error {
	s.mu.Lock()
	next := s.state.clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		metrics.StoreMutations.WithLabelValues(op, "error").Inc()
		return err
	}
	next.project.LastModified = s.tick(next.project.LastModified)
	s.state = next
	projectID := next.project.ID
	hook := s.onCommit
	s.mu.Unlock()

	metrics.StoreMutations.WithLabelValues(op, "ok").Inc()
	if hook != nil {
		hook(projectID)
	}
	return nil
}

// SaveAs stamps the project with the given draft flag and hands the resulting snapshot to
// persist. The flag and the stamp are committed only when persist succeeds. The write lock is
// held while persist runs, so the saved snapshot is exactly the committed graph. The commit
// hook does not run: a saved graph is clean.
func (s *Store) SaveAs(draft bool, persist func(domain.ProjectSnapshot) error) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	next.project.IsDraft = draft
	next.project.LastModified = s.tick(next.project.LastModified)
	if err := persist(next.snapshot()); err != nil {
		metrics.StoreMutations.WithLabelValues("save", "error").Inc()
		return domain.Project{}, err
	}
	s.state = next
	metrics.StoreMutations.WithLabelValues("save", "ok").Inc()
	return next.project, nil
}

// tick returns a timestamp strictly after last.
func (s *Store) tick(last time.Time) time.Time {
	t := s.now()
	if !t.After(last) {
		t = last.Add(time.Nanosecond)
	}
	return t
}

func (s *Store) Project() domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.project
}

// Snapshot returns a deep copy of the graph.
func (s *Store) Snapshot() domain.ProjectSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

func (s *Store) UpdateProject(patch domain.ProjectPatch) (domain.Project, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Project{}, domain.NewValidationError(domain.KindProject, "name", "name is required")
	}
	if patch.AutosarVersion != nil {
		if err := validateVersion(domain.KindProject, *patch.AutosarVersion); err != nil {
			return domain.Project{}, err
		}
	}
	err := s.mutate("update_project", func(st *state) error {
		p := st.project
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.AutosarVersion != nil {
			p.AutosarVersion = *patch.AutosarVersion
		}
		if patch.AutoSaveEnabled != nil {
			p.AutoSaveEnabled = *patch.AutoSaveEnabled
		}
		if patch.IsDraft != nil {
			p.IsDraft = *patch.IsDraft
		}
		st.project = p
		return nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	return s.Project(), nil
}

func validateName(kind domain.EntityKind, name string) error {
	if name == "" {
		return domain.NewValidationError(kind, "name", "name is required")
	}
	if !naming.IsShortName(name) {
		return domain.NewValidationError(kind, "name", "name must start with a letter and contain only letters, digits and underscores (max 128)")
	}
	return nil
}

func validateVersion(kind domain.EntityKind, v string) error {
	if _, ok := domain.SupportedAutosarVersions[v]; !ok {
		return domain.NewValidationError(kind, "autosar_version", "unsupported AUTOSAR version "+v)
	}
	return nil
}

func recordCascade(r domain.CascadeReport) {
	for kind, ids := range r.Removed {
		metrics.CascadeRemovals.WithLabelValues(string(kind)).Add(float64(len(ids)))
	}
}
