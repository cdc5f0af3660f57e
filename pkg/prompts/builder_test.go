package prompts

import (
	"strings"
	"testing"

	"github.com/inkfall/fableforge/pkg/chat"
	"github.com/inkfall/fableforge/pkg/story"
)

func testStory() *story.Story {
	s := story.NewStory("The Bridge", "A lighthouse keeper finds a door at low tide.")
	s.Genre = "mystery"
	s.Tags = []string{"coastal", "slow burn"}
	return s
}

func TestBuilder_RequiresStory(t *testing.T) {
	_, err := New().Build()
	if err == nil {
		t.Fatal("Expected error when story is missing")
	}
}

func TestBuilder_OpeningScene(t *testing.T) {
	msgs, err := New().WithStory(testStory()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != chat.ChatRoleSystem {
		t.Errorf("First message should be system, got %s", msgs[0].Role)
	}
	if msgs[1].Role != chat.ChatRoleUser {
		t.Errorf("Second message should be user, got %s", msgs[1].Role)
	}

	user := msgs[1].Content
	if !strings.Contains(user, "STORY PREMISE:") {
		t.Error("Expected premise section")
	}
	if !strings.Contains(user, "Write the opening scene") {
		t.Error("Expected opening-scene instruction when no choice is set")
	}
	if strings.Contains(user, "PREVIOUS SCENE:") {
		t.Error("Did not expect previous-scene section")
	}
}

func TestBuilder_ContinuationScene(t *testing.T) {
	s := testStory()
	s.RollingSummary = "Mira found the door and hesitated."

	msgs, err := New().
		WithStory(s).
		WithLastScene("The door stood ajar, salt water pooling at its sill.").
		WithChoice("Open the door").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	user := msgs[1].Content
	for _, want := range []string{
		"STORY SO FAR:", "PREVIOUS SCENE:", "THE PROTAGONIST CHOSE:", "Open the door",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("Expected %q in user prompt", want)
		}
	}
	if strings.Contains(user, "Write the opening scene") {
		t.Error("Continuation should not ask for an opening scene")
	}
}

func TestBuilder_CharacterCanon(t *testing.T) {
	s := testStory()
	chars := []*story.Character{
		story.NewCharacter(s.ID, "Mira", map[string]string{"mood": "anxious", "post": "keeper"}),
		story.NewCharacter(s.ID, "The Keeper", nil),
	}

	msgs, err := New().WithStory(s).WithCharacters(chars).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	user := msgs[1].Content
	if !strings.Contains(user, "ESTABLISHED CHARACTER CANON:") {
		t.Fatal("Expected canon section")
	}
	if !strings.Contains(user, "- mood: anxious") {
		t.Error("Expected canon attribute line")
	}
	if !strings.Contains(user, "The Keeper: (no established attributes yet)") {
		t.Error("Expected empty-canon marker")
	}

	// Sorted keys keep the prompt stable across runs.
	if strings.Index(user, "- mood:") > strings.Index(user, "- post:") {
		t.Error("Expected canon attributes in sorted key order")
	}
}

func TestSummaryMessages(t *testing.T) {
	msgs := SummaryMessages("", "Mira opened the door.")
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "First scene summary:") {
		t.Error("Expected initial-summary phrasing with no existing summary")
	}

	msgs = SummaryMessages("The story so far.", "Mira opened the door.")
	if !strings.Contains(msgs[1].Content, "EXISTING SUMMARY:") {
		t.Error("Expected existing-summary phrasing")
	}
}

func TestWizardMessages(t *testing.T) {
	req := WizardRequest{
		StoryPrompt:  "A drowned town resurfaces once a decade.",
		Tags:         []string{"folk horror"},
		ContentLevel: 5,
	}

	msgs := CharactersSettingsMessages(req)
	if len(msgs) != 1 || msgs[0].Role != chat.ChatRoleUser {
		t.Fatalf("Unexpected messages: %+v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "GENERATE CHARACTER AND SETTING OPTIONS") {
		t.Error("Expected characters-settings instruction")
	}
	if !strings.Contains(msgs[0].Content, "folk horror") {
		t.Error("Expected tags in prompt")
	}

	req.CharacterName = "Iva"
	req.CharacterBio = "wry dock clerk"
	req.SettingName = "Saltmere"
	req.SettingDesc = "a drowned town"
	plot := PlotMessages(req)
	if !strings.Contains(plot[0].Content, "GENERATE PLOT OPTIONS") {
		t.Error("Expected plot instruction")
	}
	if !strings.Contains(plot[0].Content, "Iva") || !strings.Contains(plot[0].Content, "Saltmere") {
		t.Error("Expected chosen character and setting in plot prompt")
	}
}
