package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfall/fableforge/internal/engine"
	"github.com/inkfall/fableforge/internal/services"
	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/chat"
	"github.com/inkfall/fableforge/pkg/generation"
)

func setupWizardHandler(t *testing.T) (*WizardHandler, *services.MockLLMAPI) {
	t.Helper()
	store := storage.NewMockStorage()
	llm := services.NewMockLLMAPI()
	eng := engine.New(store, llm, slog.Default())
	return NewWizardHandler(eng, slog.Default()), llm
}

func TestWizard_CharactersSettings(t *testing.T) {
	h, llm := setupWizardHandler(t)

	llm.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{
			"characters": [{"name": "Mira Voss", "gender": "she/her", "personality": "Sharp-tongued", "background": "Smuggler"}],
			"settings": [{"name": "Port Averil", "description": "Fog-bound harbor", "era": "Gaslamp"}]
		}`, nil
	}

	w := doJSON(t, h, http.MethodPost, "/v1/wizard/options", WizardOptionsRequest{
		Step:        generation.WizardStepCharactersSettings,
		StoryPrompt: "A smuggler gets pulled into a conspiracy.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var opts generation.CharactersSettingsOptions
	require.NoError(t, json.NewDecoder(w.Body).Decode(&opts))
	require.Len(t, opts.Characters, 1)
	assert.Equal(t, "Mira Voss", opts.Characters[0].Name)
}

func TestWizard_Plot(t *testing.T) {
	h, llm := setupWizardHandler(t)

	llm.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{
			"conflicts": [{"summary": "The cargo is a person.", "tension": "Every faction wants them."}],
			"storyTags": ["conspiracy"],
			"endings": [{"type": "bittersweet", "hint": "Freedom at a price."}]
		}`, nil
	}

	w := doJSON(t, h, http.MethodPost, "/v1/wizard/options", WizardOptionsRequest{
		Step:          generation.WizardStepPlot,
		StoryPrompt:   "A smuggler gets pulled into a conspiracy.",
		CharacterName: "Mira Voss",
		SettingName:   "Port Averil",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var opts generation.PlotOptions
	require.NoError(t, json.NewDecoder(w.Body).Decode(&opts))
	require.Len(t, opts.Conflicts, 1)
	require.Len(t, opts.Endings, 1)
}

func TestWizard_UnknownStep(t *testing.T) {
	h, _ := setupWizardHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/wizard/options", WizardOptionsRequest{
		Step:        "genre",
		StoryPrompt: "A smuggler gets pulled into a conspiracy.",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWizard_PlotRequiresSelections(t *testing.T) {
	h, _ := setupWizardHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/wizard/options", WizardOptionsRequest{
		Step:        generation.WizardStepPlot,
		StoryPrompt: "A smuggler gets pulled into a conspiracy.",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWizard_MethodNotAllowed(t *testing.T) {
	h, _ := setupWizardHandler(t)

	w := doJSON(t, h, http.MethodGet, "/v1/wizard/options", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestWizard_InvalidModelOutput(t *testing.T) {
	h, llm := setupWizardHandler(t)

	llm.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "not json", nil
	}

	w := doJSON(t, h, http.MethodPost, "/v1/wizard/options", WizardOptionsRequest{
		Step:        generation.WizardStepCharactersSettings,
		StoryPrompt: "A smuggler gets pulled into a conspiracy.",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
