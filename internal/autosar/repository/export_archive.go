package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/utils"
)

const exportSchema = `
CREATE TABLE IF NOT EXISTS swc_exports (
    id            TEXT PRIMARY KEY,
    project_id    TEXT NOT NULL,
    format        TEXT NOT NULL,
    last_modified TIMESTAMPTZ NOT NULL,
    size_bytes    INTEGER NOT NULL,
    document      BYTEA NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS swc_exports_project_idx ON swc_exports (project_id, created_at DESC);`

// ExportRecord describes one archived export. Document is only filled by Get.
type ExportRecord struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Format       string    `json:"format"`
	LastModified time.Time `json:"last_modified"`
	SizeBytes    int       `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
	Document     []byte    `json:"-"`
}

// ExportArchive keeps every generated document so a past export can be fetched again
// without rebuilding it from a graph that has since changed.
type ExportArchive struct {
	pool *pgxpool.Pool
}

func NewExportArchive(pool *pgxpool.Pool) *ExportArchive {
	return &ExportArchive{pool: pool}
}

func (a *ExportArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, exportSchema); err != nil {
		return fmt.Errorf("failed to create export table: %w", err)
	}
	return nil
}

// Record stores doc as an export of the project state stamped lastModified.
func (a *ExportArchive) Record(ctx context.Context, projectID, format string, lastModified time.Time, doc []byte) (*ExportRecord, error) {
	rec := &ExportRecord{
		ID:           utils.NewID("exp"),
		ProjectID:    projectID,
		Format:       format,
		LastModified: lastModified,
		SizeBytes:    len(doc),
	}
	const q = `
INSERT INTO swc_exports (id, project_id, format, last_modified, size_bytes, document)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at;
`
	err := a.pool.QueryRow(ctx, q, rec.ID, projectID, format, lastModified, rec.SizeBytes, doc).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to archive export: %w", err)
	}
	return rec, nil
}

// List returns the newest exports of a project without their documents.
func (a *ExportArchive) List(ctx context.Context, projectID string, limit int) ([]ExportRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT id, project_id, format, last_modified, size_bytes, created_at
FROM swc_exports
WHERE project_id = $1
ORDER BY created_at DESC
LIMIT $2;
`
	rows, err := a.pool.Query(ctx, q, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	out := make([]ExportRecord, 0, limit)
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.Format, &rec.LastModified, &rec.SizeBytes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (a *ExportArchive) Get(ctx context.Context, id string) (*ExportRecord, error) {
	const q = `
SELECT id, project_id, format, last_modified, size_bytes, created_at, document
FROM swc_exports
WHERE id = $1;
`
	var rec ExportRecord
	err := a.pool.QueryRow(ctx, q, id).Scan(&rec.ID, &rec.ProjectID, &rec.Format, &rec.LastModified, &rec.SizeBytes, &rec.CreatedAt, &rec.Document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError(domain.KindProject, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return &rec, nil
}
