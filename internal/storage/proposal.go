package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inkfall/fableforge/pkg/story"
)

// decideMaxRetries bounds optimistic-transaction retries when another
// writer touches the watched keys mid-decision.
const decideMaxRetries = 3

func (r *RedisStorage) CreateProposal(ctx context.Context, storyID uuid.UUID, p *story.ProposedChange) error {
	// Proposals may only reference records that already exist.
	missing, err := r.client.Exists(ctx, sceneKey(p.SceneID), characterKey(p.CharacterID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check proposal references: %w", err)
	}
	if missing != 2 {
		return ErrNotFound
	}

	if err := r.setJSON(ctx, proposalKey(p.ID), p); err != nil {
		return err
	}

	if err := r.client.RPush(ctx, storyProposalsKey(storyID), p.ID.String()).Err(); err != nil {
		return fmt.Errorf("failed to index proposal: %w", err)
	}
	return nil
}

func (r *RedisStorage) GetProposal(ctx context.Context, id uuid.UUID) (*story.ProposedChange, error) {
	var p story.ProposedChange
	if err := r.getJSON(ctx, proposalKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPendingProposals returns a story's PROPOSED changes in creation
// order.
func (r *RedisStorage) ListPendingProposals(ctx context.Context, storyID uuid.UUID) ([]*story.ProposedChange, error) {
	ids, err := r.client.LRange(ctx, storyProposalsKey(storyID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	pending := make([]*story.ProposedChange, 0, len(ids))
	for _, id := range ids {
		var p story.ProposedChange
		if err := r.getJSON(ctx, proposalKeyPrefix+id, &p); err != nil {
			if errors.Is(err, ErrNotFound) {
				r.logger.Warn("Indexed proposal missing", "id", id)
				continue
			}
			return nil, err
		}
		if p.Pending() {
			pending = append(pending, &p)
		}
	}
	return pending, nil
}

// DecideProposal runs fn inside an optimistic WATCH transaction over
// the proposal and its target character. The status transition and any
// canon rewrite are queued in one MULTI/EXEC, so either both land or
// neither does; a concurrent decision on the same proposal invalidates
// the transaction and the retry observes the terminal status.
func (r *RedisStorage) DecideProposal(ctx context.Context, changeID uuid.UUID, fn DecideFunc) (*story.ProposedChange, *story.Character, error) {
	// Load once outside the transaction to learn the character key.
	// The characterId of a proposal is immutable, so watching both keys
	// afterwards is safe.
	initial, err := r.GetProposal(ctx, changeID)
	if err != nil {
		return nil, nil, err
	}

	pKey := proposalKey(changeID)
	cKey := characterKey(initial.CharacterID)

	var decided *story.ProposedChange
	var updated *story.Character

	txf := func(tx *redis.Tx) error {
		pData, err := tx.Get(ctx, pKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load proposal: %w", err)
		}
		var p story.ProposedChange
		if err := json.Unmarshal([]byte(pData), &p); err != nil {
			return fmt.Errorf("failed to unmarshal proposal: %w", err)
		}

		cData, err := tx.Get(ctx, cKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load character: %w", err)
		}
		var c story.Character
		if err := json.Unmarshal([]byte(cData), &c); err != nil {
			return fmt.Errorf("failed to unmarshal character: %w", err)
		}

		newCharacter, err := fn(&p, &c)
		if err != nil {
			return err
		}

		pOut, err := json.Marshal(&p)
		if err != nil {
			return fmt.Errorf("failed to marshal proposal: %w", err)
		}
		var cOut []byte
		if newCharacter != nil {
			cOut, err = json.Marshal(newCharacter)
			if err != nil {
				return fmt.Errorf("failed to marshal character: %w", err)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, pKey, string(pOut), 0)
			if cOut != nil {
				pipe.Set(ctx, cKey, string(cOut), 0)
			}
			return nil
		})
		if err != nil {
			return err
		}

		decided = &p
		updated = newCharacter
		return nil
	}

	for i := 0; i < decideMaxRetries; i++ {
		err := r.client.Watch(ctx, txf, pKey, cKey)
		if err == nil {
			return decided, updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// A concurrent write landed; re-run and let fn re-check
			// the proposal status.
			r.logger.Debug("Decision transaction retried", "change_id", changeID, "attempt", i+1)
			continue
		}
		return nil, nil, err
	}

	return nil, nil, fmt.Errorf("decision transaction did not settle after %d attempts", decideMaxRetries)
}
