package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

const (
	projectKeyPrefix    = "swc:project:" // snapshot JSON: swc:project:{id}
	projectSetKey       = "swc:projects" // set of stored project ids
	projectEventsPrefix = "swc:events:"  // pub/sub channel: swc:events:{id}
)

// SaveEvent is published on swc:events:{id} after every successful save or delete.
type SaveEvent struct {
	ProjectID    string    `json:"project_id"`
	Action       string    `json:"action"` // saved | deleted
	IsDraft      bool      `json:"is_draft"`
	LastModified time.Time `json:"last_modified"`
}

// RedisRepository stores snapshots as JSON strings. A zero ttl keeps them forever.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) projectKey(id string) string {
	return projectKeyPrefix + id
}

// EventChannel returns the pub/sub channel save events for id are published on.
func EventChannel(id string) string {
	return projectEventsPrefix + id
}

func (r *RedisRepository) Save(ctx context.Context, snap *domain.ProjectSnapshot) error {
	if snap == nil || snap.Project.ID == "" {
		return domain.NewValidationError(domain.KindProject, "id", "snapshot has no project id")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.projectKey(snap.Project.ID), data, r.ttl)
	pipe.SAdd(ctx, projectSetKey, snap.Project.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	r.publish(ctx, SaveEvent{
		ProjectID:    snap.Project.ID,
		Action:       "saved",
		IsDraft:      snap.Project.IsDraft,
		LastModified: snap.Project.LastModified,
	})
	return nil
}

func (r *RedisRepository) Load(ctx context.Context, id string) (*domain.ProjectSnapshot, error) {
	data, err := r.client.Get(ctx, r.projectKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError(domain.KindProject, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	var snap domain.ProjectSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.projectKey(id))
	pipe.SRem(ctx, projectSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if del.Val() == 0 {
		return domain.NewNotFoundError(domain.KindProject, id)
	}
	r.publish(ctx, SaveEvent{ProjectID: id, Action: "deleted"})
	return nil
}

// List returns the stored projects, most recently modified first. Ids whose snapshot
// expired are dropped from the index on the way.
func (r *RedisRepository) List(ctx context.Context) ([]domain.Project, error) {
	ids, err := r.client.SMembers(ctx, projectSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Project{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.projectKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}

	out := make([]domain.Project, 0, len(ids))
	var stale []any
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var head struct {
			Project domain.Project `json:"project"`
		}
		if err := json.Unmarshal([]byte(s), &head); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", ids[i], err)
		}
		out = append(out, head.Project)
	}
	if len(stale) > 0 {
		r.client.SRem(ctx, projectSetKey, stale...)
	}
	sortProjects(out)
	return out, nil
}

func (r *RedisRepository) publish(ctx context.Context, ev SaveEvent) {
	data, err := json.Marshal(ev)
	if err == nil {
		r.client.Publish(ctx, EventChannel(ev.ProjectID), data)
	}
}
