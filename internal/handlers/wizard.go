package handlers

import (
	"log/slog"
	"net/http"

	"github.com/inkfall/fableforge/internal/engine"
	"github.com/inkfall/fableforge/pkg/generation"
	"github.com/inkfall/fableforge/pkg/prompts"
	"github.com/inkfall/fableforge/pkg/story"
)

// WizardHandler serves POST /v1/wizard/options, producing step-scoped
// suggestions for the story setup wizard.
type WizardHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewWizardHandler(eng *engine.Engine, logger *slog.Logger) *WizardHandler {
	return &WizardHandler{
		engine: eng,
		logger: logger,
	}
}

// WizardOptionsRequest defines the request body for wizard option
// generation. The character and setting fields are required only for
// the plot step.
type WizardOptionsRequest struct {
	Step         string   `json:"step" validate:"required,oneof=characters-settings plot"`
	StoryPrompt  string   `json:"story_prompt" validate:"required,min=10,max=5000"`
	Tags         []string `json:"tags,omitempty"`
	IsNsfw       bool     `json:"is_nsfw"`
	ContentLevel int      `json:"content_level,omitempty" validate:"omitempty,min=1,max=10"`

	CharacterName string `json:"character_name,omitempty" validate:"required_if=Step plot,max=100"`
	CharacterBio  string `json:"character_bio,omitempty" validate:"max=2000"`
	SettingName   string `json:"setting_name,omitempty" validate:"required_if=Step plot,max=100"`
	SettingDesc   string `json:"setting_desc,omitempty" validate:"max=2000"`
}

func (h *WizardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req WizardOptionsRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		h.logger.Warn("Invalid wizard request", "reason", msg)
		writeError(w, h.logger, http.StatusBadRequest, msg)
		return
	}

	wr := prompts.WizardRequest{
		StoryPrompt:  req.StoryPrompt,
		Tags:         req.Tags,
		ContentLevel: req.ContentLevel,
		IsNsfw:       req.IsNsfw,

		CharacterName: req.CharacterName,
		CharacterBio:  req.CharacterBio,
		SettingName:   req.SettingName,
		SettingDesc:   req.SettingDesc,
	}
	if wr.ContentLevel == 0 {
		wr.ContentLevel = story.DefaultContentLevel
	}

	var (
		result any
		err    error
	)
	switch req.Step {
	case generation.WizardStepCharactersSettings:
		result, err = h.engine.CharactersSettingsOptions(r.Context(), wr)
	case generation.WizardStepPlot:
		result, err = h.engine.PlotOptions(r.Context(), wr)
	}
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Wizard options generated", "step", req.Step)
	writeJSON(w, h.logger, http.StatusOK, result)
}
