package story

import (
	"time"

	"github.com/google/uuid"
)

// Choice is one of the 2-4 actions offered at the end of a scene.
type Choice struct {
	ID    uuid.UUID `json:"id"`
	Text  string    `json:"text"`
	Order int       `json:"order"`
}

// Scene is one generated beat of the story. The opening scene has no
// parent and no incoming choice text. Scenes are immutable once written.
type Scene struct {
	ID                 uuid.UUID  `json:"id"`
	StoryID            uuid.UUID  `json:"story_id"`
	ParentSceneID      *uuid.UUID `json:"parent_scene_id,omitempty"`
	IncomingChoiceText string     `json:"incoming_choice_text,omitempty"`
	Text               string     `json:"text"`
	SceneSummary       string     `json:"scene_summary,omitempty"`
	Choices            []Choice   `json:"choices"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NewScene creates a scene with ordered choices built from the given
// choice texts.
func NewScene(storyID uuid.UUID, parentSceneID *uuid.UUID, incomingChoiceText, text, summary string, choiceTexts []string) *Scene {
	choices := make([]Choice, 0, len(choiceTexts))
	for i, t := range choiceTexts {
		choices = append(choices, Choice{
			ID:    uuid.New(),
			Text:  t,
			Order: i,
		})
	}

	return &Scene{
		ID:                 uuid.New(),
		StoryID:            storyID,
		ParentSceneID:      parentSceneID,
		IncomingChoiceText: incomingChoiceText,
		Text:               text,
		SceneSummary:       summary,
		Choices:            choices,
		CreatedAt:          time.Now().UTC(),
	}
}
