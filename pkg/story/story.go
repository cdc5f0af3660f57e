package story

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Story is a single interactive-fiction work: a premise, its evolving
// rolling summary, and the configuration used when generating scenes.
type Story struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Premise        string            `json:"premise"`
	Genre          string            `json:"genre,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	IsNsfw         bool              `json:"is_nsfw"`
	ContentLevel   int               `json:"content_level"` // 1-10, prompt guidance
	Tone           map[string]string `json:"tone,omitempty"`
	ModelParams    map[string]any    `json:"model_params,omitempty"`
	RollingSummary string            `json:"rolling_summary,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewStory creates a story with a fresh ID and creation timestamp.
func NewStory(title, premise string) *Story {
	now := time.Now().UTC()
	return &Story{
		ID:           uuid.New(),
		Title:        title,
		Premise:      premise,
		ContentLevel: DefaultContentLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

const (
	DefaultContentLevel = 5
	MinContentLevel     = 1
	MaxContentLevel     = 10
)

func (s *Story) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(s.Premise) < 10 {
		return fmt.Errorf("premise must be at least 10 characters")
	}
	if s.ContentLevel < MinContentLevel || s.ContentLevel > MaxContentLevel {
		return fmt.Errorf("content level must be between %d and %d", MinContentLevel, MaxContentLevel)
	}
	return nil
}
