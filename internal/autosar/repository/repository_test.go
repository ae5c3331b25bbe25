package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleSnapshot(id string, modified time.Time) *domain.ProjectSnapshot {
	return &domain.ProjectSnapshot{
		Project: domain.Project{
			ID: id, Name: "Demo " + id, AutosarVersion: "4.4.0",
			IsDraft: true, AutoSaveEnabled: true, CreatedAt: baseTime, LastModified: modified,
		},
		SWCs: []domain.SWC{{ID: "swc_1", Name: "EngineCtrl", Category: domain.CategoryApplication, Kind: domain.SWCAtomic}},
		Interfaces: []domain.Interface{{
			ID: "if_1", Name: "SpeedIf", Kind: domain.InterfaceSenderReceiver,
			DataElements: []domain.DataElement{{ID: "de_1", Name: "Speed", ApplicationDataTypeRef: "uint16"}},
		}},
		Ports: []domain.Port{{ID: "port_1", Name: "SpeedIn", Direction: domain.PortRequired, InterfaceRef: "if_1", SWCID: "swc_1"}},
	}
}

type backend interface {
	Save(ctx context.Context, snap *domain.ProjectSnapshot) error
	Load(ctx context.Context, id string) (*domain.ProjectSnapshot, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Project, error)
}

// exerciseBackend runs the persistence contract every backend must honor.
func exerciseBackend(t *testing.T, r backend) {
	t.Helper()
	ctx := context.Background()

	_, err := r.Load(ctx, "swcproj-00000-0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	older := sampleSnapshot("swcproj-11111-1111", baseTime)
	newer := sampleSnapshot("swcproj-22222-2222", baseTime.Add(time.Minute))
	require.NoError(t, r.Save(ctx, older))
	require.NoError(t, r.Save(ctx, newer))

	got, err := r.Load(ctx, older.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, older.Project.Name, got.Project.Name)
	assert.True(t, got.Project.LastModified.Equal(older.Project.LastModified))
	require.Len(t, got.Ports, 1)
	assert.Equal(t, "if_1", got.Ports[0].InterfaceRef)

	// loaded copies are independent of later saves
	got.SWCs[0].Name = "Mutated"
	again, err := r.Load(ctx, older.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, "EngineCtrl", again.SWCs[0].Name)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.Project.ID, list[0].ID)

	older.Project.IsDraft = false
	require.NoError(t, r.Save(ctx, older))
	got, err = r.Load(ctx, older.Project.ID)
	require.NoError(t, err)
	assert.False(t, got.Project.IsDraft)

	require.NoError(t, r.Delete(ctx, older.Project.ID))
	assert.ErrorIs(t, r.Delete(ctx, older.Project.ID), domain.ErrNotFound)
	_, err = r.Load(ctx, older.Project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryRepository(t *testing.T) {
	exerciseBackend(t, NewMemoryRepository())
}

func TestMemoryRepository_RejectsMissingID(t *testing.T) {
	err := NewMemoryRepository().Save(context.Background(), &domain.ProjectSnapshot{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFileRepository(t *testing.T) {
	r, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)
	exerciseBackend(t, r)
}

func TestFileRepository_RejectsUnsafeIDs(t *testing.T) {
	dir := t.TempDir()
	r, err := NewFileRepository(dir)
	require.NoError(t, err)

	_, err = r.Load(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, r.Save(context.Background(), sampleSnapshot("swcproj-11111-1111", baseTime)))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "swcproj-11111-1111.yaml", entries[0].Name())
	assert.FileExists(t, filepath.Join(dir, "swcproj-11111-1111.yaml"))
}

func setupRedis(t *testing.T, ttl time.Duration) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepository(client, ttl), mr
}

func TestRedisRepository(t *testing.T) {
	r, _ := setupRedis(t, 0)
	exerciseBackend(t, r)
}

func TestRedisRepository_KeysAndTTL(t *testing.T) {
	r, mr := setupRedis(t, time.Hour)
	ctx := context.Background()
	snap := sampleSnapshot("swcproj-11111-1111", baseTime)
	require.NoError(t, r.Save(ctx, snap))

	assert.True(t, mr.Exists("swc:project:swcproj-11111-1111"))
	members, err := mr.Members("swc:projects")
	require.NoError(t, err)
	assert.Equal(t, []string{"swcproj-11111-1111"}, members)
	assert.Equal(t, time.Hour, mr.TTL("swc:project:swcproj-11111-1111"))

	mr.FastForward(2 * time.Hour)
	_, err = r.Load(ctx, snap.Project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	members, _ = mr.Members("swc:projects")
	assert.Empty(t, members, "expired ids are pruned from the index")
}

func TestRedisRepository_PublishesSaveEvents(t *testing.T) {
	r, _ := setupRedis(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// any redis client may listen; the repository only publishes
	ps := r.client.Subscribe(ctx, EventChannel("swcproj-11111-1111"))
	defer ps.Close()
	_, err := ps.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	require.NoError(t, r.Save(ctx, sampleSnapshot("swcproj-11111-1111", baseTime)))

	msg, err := ps.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, EventChannel("swcproj-11111-1111"), msg.Channel)

	var ev SaveEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, "saved", ev.Action)
	assert.True(t, ev.IsDraft)
	assert.True(t, ev.LastModified.Equal(baseTime))
}

func setupPostgres(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_Save(t *testing.T) {
	r, mock := setupPostgres(t)
	snap := sampleSnapshot("swcproj-11111-1111", baseTime)

	mock.ExpectExec(`INSERT INTO swc_project_snapshots`).
		WithArgs("swcproj-11111-1111", snap.Project.Name, "4.4.0", true, true, baseTime, baseTime, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Save(context.Background(), snap))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveMapsIntegrityViolations(t *testing.T) {
	r, mock := setupPostgres(t)
	mock.ExpectExec(`INSERT INTO swc_project_snapshots`).
		WillReturnError(&pq.Error{Code: "23514", Message: "check constraint violated"})

	err := r.Save(context.Background(), sampleSnapshot("swcproj-11111-1111", baseTime))
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Load(t *testing.T) {
	r, mock := setupPostgres(t)
	snap := sampleSnapshot("swcproj-11111-1111", baseTime)
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT snapshot FROM swc_project_snapshots`).
			WithArgs("swcproj-11111-1111").
			WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(data))

		got, err := r.Load(context.Background(), "swcproj-11111-1111")
		require.NoError(t, err)
		assert.Equal(t, "EngineCtrl", got.SWCs[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT snapshot FROM swc_project_snapshots`).
			WithArgs("swcproj-00000-0000").
			WillReturnRows(sqlmock.NewRows([]string{"snapshot"}))

		_, err := r.Load(context.Background(), "swcproj-00000-0000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_DeleteAndList(t *testing.T) {
	r, mock := setupPostgres(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM swc_project_snapshots`).
		WithArgs("swcproj-00000-0000").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, r.Delete(ctx, "swcproj-00000-0000"), domain.ErrNotFound)

	cols := []string{"project_id", "name", "autosar_version", "is_draft", "auto_save_enabled", "created_at", "last_modified"}
	mock.ExpectQuery(`SELECT project_id, name, autosar_version`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("swcproj-22222-2222", "B", "R22-11", false, true, baseTime, baseTime.Add(time.Minute)).
			AddRow("swcproj-11111-1111", "A", "4.4.0", true, false, baseTime, baseTime))
	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "R22-11", list[0].AutosarVersion)
	assert.False(t, list[1].AutoSaveEnabled)

	mock.ExpectQuery(`WHERE project_id = ANY\(\$1\)`).
		WithArgs(pq.Array([]string{"swcproj-11111-1111"})).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("swcproj-11111-1111", "A", "4.4.0", true, false, baseTime, baseTime))
	list, err = r.ListByIDs(ctx, []string{"swcproj-11111-1111"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	r, mock := setupPostgres(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS swc_project_snapshots`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, r.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

// The archive needs a real server; it runs only when TEST_DB_DSN is set.
func TestExportArchive_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping export archive integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	a := NewExportArchive(pool)
	require.NoError(t, a.EnsureSchema(ctx))

	projectID := "swcproj-it-" + time.Now().Format("150405.000000")
	rec, err := a.Record(ctx, projectID, "arxml", baseTime, []byte("<AUTOSAR/>"))
	require.NoError(t, err)
	assert.Equal(t, 10, rec.SizeBytes)

	list, err := a.List(ctx, projectID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Document)

	got, err := a.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "<AUTOSAR/>", string(got.Document))

	_, err = a.Get(ctx, "exp_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _ = pool.Exec(ctx, `DELETE FROM swc_exports WHERE project_id = $1`, projectID)
}
