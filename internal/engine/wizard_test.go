package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfall/fableforge/pkg/chat"
	"github.com/inkfall/fableforge/pkg/generation"
	"github.com/inkfall/fableforge/pkg/prompts"
)

func TestCharactersSettingsOptions(t *testing.T) {
	eng, _, llm := setupEngine(t)

	llm.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{
			"characters": [
				{"name": "Mira Voss", "gender": "she/her", "personality": "Sharp-tongued and loyal", "background": "A dockside smuggler"}
			],
			"settings": [
				{"name": "Port Averil", "description": "A fog-bound harbor city", "era": "Gaslamp"}
			]
		}`, nil
	}

	opts, err := eng.CharactersSettingsOptions(context.Background(), prompts.WizardRequest{
		StoryPrompt:  "A smuggler gets pulled into a conspiracy.",
		ContentLevel: 5,
	})
	require.NoError(t, err)
	require.Len(t, opts.Characters, 1)
	assert.Equal(t, "Mira Voss", opts.Characters[0].Name)
	require.Len(t, opts.Settings, 1)
	assert.Equal(t, "Port Averil", opts.Settings[0].Name)

	// The prompt carried the premise.
	require.Len(t, llm.ChatCompletionCalls, 1)
	assert.Contains(t, llm.ChatCompletionCalls[0][0].Content, "smuggler")
}

func TestPlotOptions_InvalidOutput(t *testing.T) {
	eng, _, llm := setupEngine(t)

	llm.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `not json`, nil
	}

	_, err := eng.PlotOptions(context.Background(), prompts.WizardRequest{
		StoryPrompt:   "A smuggler gets pulled into a conspiracy.",
		ContentLevel:  5,
		CharacterName: "Mira Voss",
		SettingName:   "Port Averil",
	})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}
