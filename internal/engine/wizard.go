package engine

import (
	"context"
	"fmt"

	"github.com/inkfall/fableforge/pkg/generation"
	"github.com/inkfall/fableforge/pkg/prompts"
)

// CharactersSettingsOptions asks the model for character and setting
// suggestions for the story wizard.
func (e *Engine) CharactersSettingsOptions(ctx context.Context, req prompts.WizardRequest) (*generation.CharactersSettingsOptions, error) {
	raw, err := e.llm.ChatCompletion(ctx, prompts.CharactersSettingsMessages(req))
	if err != nil {
		return nil, fmt.Errorf("wizard call failed: %w", err)
	}
	return generation.ParseCharactersSettingsOptions(raw)
}

// PlotOptions asks the model for conflict and ending suggestions given
// a chosen character and setting.
func (e *Engine) PlotOptions(ctx context.Context, req prompts.WizardRequest) (*generation.PlotOptions, error) {
	raw, err := e.llm.ChatCompletion(ctx, prompts.PlotMessages(req))
	if err != nil {
		return nil, fmt.Errorf("wizard call failed: %w", err)
	}
	return generation.ParsePlotOptions(raw)
}
