package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

const snapshotExt = ".yaml"

var safeID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileRepository keeps one YAML snapshot per project under dir:
//
//	<dir>/<project-id>.yaml
//
// Writes go to a temp file first and are renamed into place.
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) (*FileRepository, error) {
	if dir == "" {
		dir = "out/projects"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileRepository{dir: dir}, nil
}

func (r *FileRepository) path(id string) (string, error) {
	if !safeID.MatchString(id) {
		return "", domain.NewValidationError(domain.KindProject, "id", "project id is not usable as a file name")
	}
	return filepath.Join(r.dir, id+snapshotExt), nil
}

func (r *FileRepository) Save(ctx context.Context, snap *domain.ProjectSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		return domain.NewValidationError(domain.KindProject, "id", "snapshot has no project id")
	}
	path, err := r.path(snap.Project.ID)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, snap.Project.ID+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (r *FileRepository) Load(ctx context.Context, id string) (*domain.ProjectSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.path(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewNotFoundError(domain.KindProject, id)
	}
	if err != nil {
		return nil, err
	}
	var snap domain.ProjectSnapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return &snap, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewNotFoundError(domain.KindProject, id)
		}
		return err
	}
	return nil
}

func (r *FileRepository) List(ctx context.Context) ([]domain.Project, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		snap, err := r.Load(ctx, strings.TrimSuffix(e.Name(), snapshotExt))
		if err != nil {
			return nil, err
		}
		out = append(out, snap.Project)
	}
	sortProjects(out)
	return out, nil
}
