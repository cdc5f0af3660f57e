package storage

import (
	"context"
	"time"

	"github.com/inkfall/fableforge/pkg/story"
)

func (r *RedisStorage) GetProfile(ctx context.Context, ownerID string) (*story.Profile, error) {
	var p story.Profile
	if err := r.getJSON(ctx, profileKey(ownerID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisStorage) PutProfile(ctx context.Context, p *story.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	return r.setJSON(ctx, profileKey(p.OwnerID), p)
}
