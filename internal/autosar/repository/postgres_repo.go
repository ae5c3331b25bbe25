package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS swc_project_snapshots (
    project_id        TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    autosar_version   TEXT NOT NULL,
    is_draft          BOOLEAN NOT NULL DEFAULT TRUE,
    auto_save_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    created_at        TIMESTAMPTZ NOT NULL,
    last_modified     TIMESTAMPTZ NOT NULL,
    snapshot          JSONB NOT NULL,
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresRepository stores one row per project with the snapshot as JSONB and the
// project header in plain columns for listing.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the snapshot table when it is missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, snap *domain.ProjectSnapshot) error {
	if snap == nil || snap.Project.ID == "" {
		return domain.NewValidationError(domain.KindProject, "id", "snapshot has no project id")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	const q = `
INSERT INTO swc_project_snapshots
    (project_id, name, autosar_version, is_draft, auto_save_enabled, created_at, last_modified, snapshot)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (project_id) DO UPDATE SET
    name = EXCLUDED.name,
    autosar_version = EXCLUDED.autosar_version,
    is_draft = EXCLUDED.is_draft,
    auto_save_enabled = EXCLUDED.auto_save_enabled,
    last_modified = EXCLUDED.last_modified,
    snapshot = EXCLUDED.snapshot,
    updated_at = now();
`
	p := snap.Project
	_, err = r.db.ExecContext(ctx, q, p.ID, p.Name, p.AutosarVersion, p.IsDraft, p.AutoSaveEnabled, p.CreatedAt, p.LastModified, data)
	if err != nil {
		return mapPQError(p.ID, err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context, id string) (*domain.ProjectSnapshot, error) {
	const q = `SELECT snapshot FROM swc_project_snapshots WHERE project_id = $1;`
	var data []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(domain.KindProject, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	var snap domain.ProjectSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM swc_project_snapshots WHERE project_id = $1;`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError(domain.KindProject, id)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
SELECT project_id, name, autosar_version, is_draft, auto_save_enabled, created_at, last_modified
FROM swc_project_snapshots
ORDER BY last_modified DESC, project_id;
`
	return r.queryProjects(ctx, q)
}

// ListByIDs returns the stored subset of ids, most recently modified first.
func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Project, error) {
	const q = `
SELECT project_id, name, autosar_version, is_draft, auto_save_enabled, created_at, last_modified
FROM swc_project_snapshots
WHERE project_id = ANY($1)
ORDER BY last_modified DESC, project_id;
`
	return r.queryProjects(ctx, q, pq.Array(ids))
}

func (r *PostgresRepository) queryProjects(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.AutosarVersion, &p.IsDraft, &p.AutoSaveEnabled, &p.CreatedAt, &p.LastModified); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// mapPQError turns integrity violations (class 23) into conflicts; everything else is
// returned wrapped.
func mapPQError(id string, err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && strings.HasPrefix(string(pgErr.Code), "23") {
		return domain.NewConflictError(domain.KindProject, id, pgErr.Message)
	}
	return fmt.Errorf("failed to save project: %w", err)
}
