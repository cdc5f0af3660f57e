package story

import (
	"time"

	"github.com/google/uuid"
)

// Character belongs to a story and carries its canon: the authoritative
// attribute mapping, always a fully materialized snapshot. After creation
// the canon is only ever rewritten by an accepted proposal; characters are
// never deleted.
type Character struct {
	ID        uuid.UUID         `json:"id"`
	StoryID   uuid.UUID         `json:"story_id"`
	Name      string            `json:"name"`
	Canon     map[string]string `json:"canon"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewCharacter creates a character with its initial canon. A nil canon
// is stored as an empty mapping.
func NewCharacter(storyID uuid.UUID, name string, initialCanon map[string]string) *Character {
	if initialCanon == nil {
		initialCanon = map[string]string{}
	}
	return &Character{
		ID:        uuid.New(),
		StoryID:   storyID,
		Name:      name,
		Canon:     initialCanon,
		CreatedAt: time.Now().UTC(),
	}
}
