package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/canon"
	"github.com/inkfall/fableforge/pkg/story"
)

// DecisionResult reports the outcome of a decision. Character is nil
// when the proposal was rejected.
type DecisionResult struct {
	Change    *story.ProposedChange `json:"change"`
	Character *story.Character      `json:"character,omitempty"`
}

// DecideChange applies a user decision to a pending proposal. Accepting
// applies the proposal's diff to the character's canon as it stands now
// and persists canon and status as one atomic unit; rejecting persists
// the status alone. A proposal that has already been decided fails with
// story.ErrAlreadyDecided and nothing is written.
func (e *Engine) DecideChange(ctx context.Context, changeID uuid.UUID, accept bool) (*DecisionResult, error) {
	change, character, err := e.storage.DecideProposal(ctx, changeID, func(p *story.ProposedChange, c *story.Character) (*story.Character, error) {
		if err := p.Decide(accept, time.Now().UTC()); err != nil {
			return nil, err
		}
		if !accept {
			return nil, nil
		}

		c.Canon = canon.Apply(c.Canon, p.Diff)
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Change decided",
		"change_id", changeID,
		"status", change.Status,
		"character_id", change.CharacterID)

	return &DecisionResult{Change: change, Character: character}, nil
}
