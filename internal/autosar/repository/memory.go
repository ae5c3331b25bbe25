// Package repository holds the persistence backends behind lifecycle.Repository.
// Every backend stores whole project snapshots; none of them interprets the graph.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

// MemoryRepository keeps encoded snapshots in process memory. Loaded snapshots never share
// memory with saved ones.
type MemoryRepository struct {
	mu    sync.RWMutex
	snaps map[string][]byte
	meta  map[string]domain.Project
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snaps: map[string][]byte{}, meta: map[string]domain.Project{}}
}

func (r *MemoryRepository) Save(ctx context.Context, snap *domain.ProjectSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil || snap.Project.ID == "" {
		return domain.NewValidationError(domain.KindProject, "id", "snapshot has no project id")
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps[snap.Project.ID] = b
	r.meta[snap.Project.ID] = snap.Project
	return nil
}

func (r *MemoryRepository) Load(ctx context.Context, id string) (*domain.ProjectSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	b, ok := r.snaps[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindProject, id)
	}
	var snap domain.ProjectSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snaps[id]; !ok {
		return domain.NewNotFoundError(domain.KindProject, id)
	}
	delete(r.snaps, id)
	delete(r.meta, id)
	return nil
}

// List returns the stored projects, most recently modified first.
func (r *MemoryRepository) List(ctx context.Context) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]domain.Project, 0, len(r.meta))
	for _, p := range r.meta {
		out = append(out, p)
	}
	r.mu.RUnlock()
	sortProjects(out)
	return out, nil
}

func sortProjects(ps []domain.Project) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].LastModified.Equal(ps[j].LastModified) {
			return ps[i].LastModified.After(ps[j].LastModified)
		}
		return ps[i].ID < ps[j].ID
	})
}
