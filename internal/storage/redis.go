package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Key prefixes for record blobs and the index lists that preserve
// creation order.
const (
	storyKeyPrefix     = "story:"
	characterKeyPrefix = "character:"
	sceneKeyPrefix     = "scene:"
	proposalKeyPrefix  = "proposal:"
	profileKeyPrefix   = "profile:"

	storiesIndexKey = "stories"
)

func storyKey(id uuid.UUID) string     { return storyKeyPrefix + id.String() }
func characterKey(id uuid.UUID) string { return characterKeyPrefix + id.String() }
func sceneKey(id uuid.UUID) string     { return sceneKeyPrefix + id.String() }
func proposalKey(id uuid.UUID) string  { return proposalKeyPrefix + id.String() }
func profileKey(owner string) string   { return profileKeyPrefix + owner }

func storyCharactersKey(storyID uuid.UUID) string { return storyKey(storyID) + ":characters" }
func storyScenesKey(storyID uuid.UUID) string     { return storyKey(storyID) + ":scenes" }
func storyProposalsKey(storyID uuid.UUID) string  { return storyKey(storyID) + ":proposals" }

// RedisStorage implements the Storage interface using Redis. Records
// are JSON blobs keyed by uuid; per-story index lists keep creation
// order for stable listings.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
