package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inkfall/fableforge/pkg/story"
)

// getJSON loads a record blob into v; ErrNotFound when the key is absent.
func (r *RedisStorage) getJSON(ctx context.Context, key string, v any) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		r.logger.Error("Failed to load record", "key", key, "error", err)
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		r.logger.Error("Failed to unmarshal record", "key", key, "error", err)
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// setJSON stores v as a record blob.
func (r *RedisStorage) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save record", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) CreateStory(ctx context.Context, s *story.Story) error {
	if err := r.setJSON(ctx, storyKey(s.ID), s); err != nil {
		return err
	}

	// Newest first, matching the story list in the UI.
	if err := r.client.LPush(ctx, storiesIndexKey, s.ID.String()).Err(); err != nil {
		return fmt.Errorf("failed to index story: %w", err)
	}
	return nil
}

func (r *RedisStorage) GetStory(ctx context.Context, id uuid.UUID) (*story.Story, error) {
	var s story.Story
	if err := r.getJSON(ctx, storyKey(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStorage) UpdateStory(ctx context.Context, s *story.Story) error {
	exists, err := r.client.Exists(ctx, storyKey(s.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check story existence: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	s.UpdatedAt = time.Now().UTC()
	return r.setJSON(ctx, storyKey(s.ID), s)
}

func (r *RedisStorage) ListStories(ctx context.Context) ([]*story.Story, error) {
	ids, err := r.client.LRange(ctx, storiesIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	stories := make([]*story.Story, 0, len(ids))
	for _, id := range ids {
		var s story.Story
		if err := r.getJSON(ctx, storyKeyPrefix+id, &s); err != nil {
			if errors.Is(err, ErrNotFound) {
				r.logger.Warn("Indexed story missing", "id", id)
				continue
			}
			return nil, err
		}
		stories = append(stories, &s)
	}
	return stories, nil
}
