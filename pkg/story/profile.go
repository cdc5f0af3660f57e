package story

import "time"

// Profile holds the single implicit owner's authoring defaults. The
// owner id comes from configuration; the data model stays
// multi-tenant-capable.
type Profile struct {
	OwnerID             string    `json:"owner_id"`
	DefaultTags         []string  `json:"default_tags"`
	DefaultNsfw         bool      `json:"default_nsfw"`
	DefaultContentLevel int       `json:"default_content_level"`
	DefaultStoryPrompt  string    `json:"default_story_prompt,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewProfile creates a profile with default authoring settings.
func NewProfile(ownerID string) *Profile {
	return &Profile{
		OwnerID:             ownerID,
		DefaultTags:         []string{},
		DefaultContentLevel: DefaultContentLevel,
		UpdatedAt:           time.Now().UTC(),
	}
}
