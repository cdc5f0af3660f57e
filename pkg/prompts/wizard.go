package prompts

import (
	"fmt"
	"strings"

	"github.com/inkfall/fableforge/pkg/chat"
)

// WizardRequest carries the context a wizard-option prompt needs.
type WizardRequest struct {
	StoryPrompt  string
	Tags         []string
	ContentLevel int
	IsNsfw       bool

	// Plot step only: the character and setting the user picked.
	CharacterName string
	CharacterBio  string
	SettingName   string
	SettingDesc   string
}

func (r WizardRequest) tagLine() string {
	if len(r.Tags) == 0 {
		return "None specified"
	}
	return strings.Join(r.Tags, ", ")
}

// CharactersSettingsMessages builds the prompt asking the model for
// character and setting options.
func CharactersSettingsMessages(r WizardRequest) []chat.ChatMessage {
	prompt := fmt.Sprintf(`%s

GENERATE CHARACTER AND SETTING OPTIONS for an interactive story.

Tags/Themes: %s
Content Level: %d/10
Content Guidance: %s

Generate EXACTLY this JSON format with NO markdown, NO explanations:

{
  "characters": [
    {
      "name": "Character Name",
      "gender": "she/her, he/him, they/them, or other",
      "personality": "Key personality traits, flaws, and quirks",
      "background": "Brief background, profession, and current situation"
    }
  ],
  "settings": [
    {
      "name": "Setting Name",
      "description": "Vivid description of the location, atmosphere, and key details",
      "era": "Time period or technological level"
    }
  ]
}

Generate 3-4 character options and exactly 3 setting options. Make characters diverse, compelling, and well-suited to the story prompt and tags. Settings should be atmospheric and provide rich storytelling opportunities.`,
		r.StoryPrompt, r.tagLine(), r.ContentLevel, ContentGuidance(r.IsNsfw, r.ContentLevel))

	return []chat.ChatMessage{chat.User(prompt)}
}

// PlotMessages builds the prompt asking the model for plot options given
// a chosen character and setting.
func PlotMessages(r WizardRequest) []chat.ChatMessage {
	prompt := fmt.Sprintf(`%s

GENERATE PLOT OPTIONS for an interactive story.

Tags/Themes: %s
Content Level: %d/10
Content Guidance: %s
Chosen Character: %s - %s
Chosen Setting: %s - %s

Generate EXACTLY this JSON format with NO markdown, NO explanations:

{
  "conflicts": [
    {
      "summary": "One-sentence central conflict",
      "tension": "What keeps the pressure rising"
    }
  ],
  "storyTags": ["thematic tags that fit the premise"],
  "endings": [
    {
      "type": "triumphant, tragic, bittersweet, or open",
      "hint": "A one-line direction the story could resolve toward"
    }
  ]
}

Generate exactly 3 conflict options and 3 ending options. Conflicts should arise naturally from the chosen character and setting.`,
		r.StoryPrompt, r.tagLine(), r.ContentLevel, ContentGuidance(r.IsNsfw, r.ContentLevel),
		r.CharacterName, r.CharacterBio, r.SettingName, r.SettingDesc)

	return []chat.ChatMessage{chat.User(prompt)}
}
