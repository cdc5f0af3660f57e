package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkfall/fableforge/pkg/chat"
	"github.com/inkfall/fableforge/pkg/story"
)

// Builder constructs the chat messages for a scene generation call
// using a fluent interface. It separates prompt assembly from the
// engine's orchestration logic.
type Builder struct {
	story         *story.Story
	characters    []*story.Character
	lastSceneText string
	choiceText    string
}

// New creates a new prompt builder.
func New() *Builder {
	return &Builder{}
}

// WithStory sets the story whose premise, summary, and content settings
// feed the prompt.
func (b *Builder) WithStory(s *story.Story) *Builder {
	b.story = s
	return b
}

// WithCharacters sets the characters whose canon is presented as
// established fact.
func (b *Builder) WithCharacters(characters []*story.Character) *Builder {
	b.characters = characters
	return b
}

// WithLastScene sets the text of the parent scene, if any.
func (b *Builder) WithLastScene(text string) *Builder {
	b.lastSceneText = text
	return b
}

// WithChoice sets the choice text that produced this generation, if any.
func (b *Builder) WithChoice(text string) *Builder {
	b.choiceText = text
	return b
}

// Build constructs the final message array for LLM consumption.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.story == nil {
		return nil, fmt.Errorf("story is required")
	}

	return []chat.ChatMessage{
		chat.System(SceneSystemPrompt),
		chat.User(b.userPrompt()),
	}, nil
}

func (b *Builder) userPrompt() string {
	var parts []string

	parts = append(parts, "STORY PREMISE:\n"+b.story.Premise)

	if b.story.Genre != "" || len(b.story.Tags) > 0 {
		var meta []string
		if b.story.Genre != "" {
			meta = append(meta, "Genre: "+b.story.Genre)
		}
		if len(b.story.Tags) > 0 {
			meta = append(meta, "Tags: "+strings.Join(b.story.Tags, ", "))
		}
		parts = append(parts, strings.Join(meta, "\n"))
	}

	if len(b.story.Tone) > 0 {
		keys := make([]string, 0, len(b.story.Tone))
		for k := range b.story.Tone {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var tone []string
		for _, k := range keys {
			tone = append(tone, fmt.Sprintf("  - %s: %s", k, b.story.Tone[k]))
		}
		parts = append(parts, "TONE:\n"+strings.Join(tone, "\n"))
	}

	parts = append(parts, "CONTENT GUIDANCE:\n"+ContentGuidance(b.story.IsNsfw, b.story.ContentLevel))

	if len(b.characters) > 0 {
		var sb strings.Builder
		sb.WriteString("ESTABLISHED CHARACTER CANON:")
		for _, c := range b.characters {
			sb.WriteString("\n\n" + c.Name)
			if len(c.Canon) == 0 {
				sb.WriteString(": (no established attributes yet)")
				continue
			}
			keys := make([]string, 0, len(c.Canon))
			for k := range c.Canon {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			sb.WriteString(":")
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("\n  - %s: %s", k, c.Canon[k]))
			}
		}
		parts = append(parts, sb.String())
	}

	if b.story.RollingSummary != "" {
		parts = append(parts, "STORY SO FAR:\n"+b.story.RollingSummary)
	}

	if b.lastSceneText != "" {
		parts = append(parts, "PREVIOUS SCENE:\n"+b.lastSceneText)
	}

	if b.choiceText != "" {
		parts = append(parts, fmt.Sprintf("THE PROTAGONIST CHOSE:\n%q", b.choiceText))
		parts = append(parts, "Write what happens next as a direct consequence of this choice.")
	} else {
		parts = append(parts, "Write the opening scene of this story.")
	}

	return strings.Join(parts, "\n\n")
}

// SummaryMessages builds the messages for a rolling-summary fold.
func SummaryMessages(currentSummary, newSceneSummary string) []chat.ChatMessage {
	var user string
	if currentSummary != "" {
		user = fmt.Sprintf("EXISTING SUMMARY:\n%s\n\nNEW SCENE:\n%s\n\nCreate an updated rolling summary.", currentSummary, newSceneSummary)
	} else {
		user = fmt.Sprintf("First scene summary:\n%s\n\nCreate an initial story summary.", newSceneSummary)
	}

	return []chat.ChatMessage{
		chat.System(SummarySystemPrompt),
		chat.User(user),
	}
}
