package story

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/canon"
)

// ChangeStatus is the lifecycle state of a proposed change.
type ChangeStatus string

const (
	StatusProposed ChangeStatus = "PROPOSED"
	StatusAccepted ChangeStatus = "ACCEPTED"
	StatusRejected ChangeStatus = "REJECTED"
)

// ErrAlreadyDecided is returned when a decision is attempted on a
// proposal that has already left PROPOSED.
var ErrAlreadyDecided = errors.New("proposed change has already been decided")

// ProposedChange is a staged, reviewable diff against a character's
// canon. The diff is captured at proposal time and never mutated.
// Status transitions exactly once, out of PROPOSED, and is terminal
// after that.
type ProposedChange struct {
	ID          uuid.UUID    `json:"id"`
	SceneID     uuid.UUID    `json:"scene_id"`
	CharacterID uuid.UUID    `json:"character_id"`
	Diff        canon.Diff   `json:"diff"`
	Rationale   string       `json:"rationale,omitempty"`
	Status      ChangeStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	DecidedAt   *time.Time   `json:"decided_at,omitempty"`
}

// NewProposedChange creates a pending proposal for the given scene and
// character.
func NewProposedChange(sceneID, characterID uuid.UUID, diff canon.Diff, rationale string) *ProposedChange {
	if diff.Set == nil {
		diff.Set = map[string]string{}
	}
	if diff.Unset == nil {
		diff.Unset = []string{}
	}
	return &ProposedChange{
		ID:          uuid.New(),
		SceneID:     sceneID,
		CharacterID: characterID,
		Diff:        diff,
		Rationale:   rationale,
		Status:      StatusProposed,
		CreatedAt:   time.Now().UTC(),
	}
}

// Pending reports whether the proposal still awaits a decision.
func (p *ProposedChange) Pending() bool {
	return p.Status == StatusProposed
}

// Decide transitions the proposal out of PROPOSED. Only one decision may
// ever succeed; any attempt on a non-pending proposal returns
// ErrAlreadyDecided without mutating the proposal.
func (p *ProposedChange) Decide(accept bool, now time.Time) error {
	if p.Status != StatusProposed {
		return ErrAlreadyDecided
	}

	if accept {
		p.Status = StatusAccepted
	} else {
		p.Status = StatusRejected
	}
	p.DecidedAt = &now
	return nil
}
