package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/story"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the storage connection
	Close() error
}

// DecideFunc is the decision closure run inside DecideProposal's
// transaction. It receives the current proposal and its target
// character, transitions the proposal, and returns the updated
// character when canon changed (nil when it did not). Returning an
// error aborts the transaction with no writes.
type DecideFunc func(p *story.ProposedChange, c *story.Character) (*story.Character, error)

// Storage defines persistence for stories, characters, scenes,
// proposed changes, and the owner profile.
type Storage interface {
	HealthChecker
	Closer

	// Stories
	CreateStory(ctx context.Context, s *story.Story) error
	GetStory(ctx context.Context, id uuid.UUID) (*story.Story, error)
	UpdateStory(ctx context.Context, s *story.Story) error
	ListStories(ctx context.Context) ([]*story.Story, error)

	// Characters. CreateCharacter is the only write path that
	// establishes canon; afterwards canon changes only inside
	// DecideProposal.
	CreateCharacter(ctx context.Context, c *story.Character) error
	GetCharacter(ctx context.Context, id uuid.UUID) (*story.Character, error)
	ListCharacters(ctx context.Context, storyID uuid.UUID) ([]*story.Character, error)

	// Scenes
	CreateScene(ctx context.Context, sc *story.Scene) error
	GetScene(ctx context.Context, id uuid.UUID) (*story.Scene, error)

	// Proposed changes
	CreateProposal(ctx context.Context, storyID uuid.UUID, p *story.ProposedChange) error
	GetProposal(ctx context.Context, id uuid.UUID) (*story.ProposedChange, error)
	ListPendingProposals(ctx context.Context, storyID uuid.UUID) ([]*story.ProposedChange, error)

	// DecideProposal runs fn atomically against the proposal and its
	// target character: either both the status transition and the
	// canon rewrite land, or neither does. Concurrent decisions on the
	// same proposal are serialized so only one can leave PROPOSED.
	DecideProposal(ctx context.Context, changeID uuid.UUID, fn DecideFunc) (*story.ProposedChange, *story.Character, error)

	// Profile
	GetProfile(ctx context.Context, ownerID string) (*story.Profile, error)
	PutProfile(ctx context.Context, p *story.Profile) error
}
