package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/story"
)

func (r *RedisStorage) CreateScene(ctx context.Context, sc *story.Scene) error {
	exists, err := r.client.Exists(ctx, storyKey(sc.StoryID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check story existence: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	if err := r.setJSON(ctx, sceneKey(sc.ID), sc); err != nil {
		return err
	}

	if err := r.client.RPush(ctx, storyScenesKey(sc.StoryID), sc.ID.String()).Err(); err != nil {
		return fmt.Errorf("failed to index scene: %w", err)
	}
	return nil
}

func (r *RedisStorage) GetScene(ctx context.Context, id uuid.UUID) (*story.Scene, error) {
	var sc story.Scene
	if err := r.getJSON(ctx, sceneKey(id), &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
