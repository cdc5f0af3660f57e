package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/story"
)

func (r *RedisStorage) CreateCharacter(ctx context.Context, c *story.Character) error {
	exists, err := r.client.Exists(ctx, storyKey(c.StoryID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check story existence: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	if err := r.setJSON(ctx, characterKey(c.ID), c); err != nil {
		return err
	}

	if err := r.client.RPush(ctx, storyCharactersKey(c.StoryID), c.ID.String()).Err(); err != nil {
		return fmt.Errorf("failed to index character: %w", err)
	}
	return nil
}

func (r *RedisStorage) GetCharacter(ctx context.Context, id uuid.UUID) (*story.Character, error) {
	var c story.Character
	if err := r.getJSON(ctx, characterKey(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCharacters returns a story's characters in creation order.
func (r *RedisStorage) ListCharacters(ctx context.Context, storyID uuid.UUID) ([]*story.Character, error) {
	ids, err := r.client.LRange(ctx, storyCharactersKey(storyID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	characters := make([]*story.Character, 0, len(ids))
	for _, id := range ids {
		var c story.Character
		if err := r.getJSON(ctx, characterKeyPrefix+id, &c); err != nil {
			if errors.Is(err, ErrNotFound) {
				r.logger.Warn("Indexed character missing", "id", id)
				continue
			}
			return nil, err
		}
		characters = append(characters, &c)
	}
	return characters, nil
}
