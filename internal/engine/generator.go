package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/canon"
	"github.com/inkfall/fableforge/pkg/generation"
	"github.com/inkfall/fableforge/pkg/prompts"
	"github.com/inkfall/fableforge/pkg/story"
	"github.com/inkfall/fableforge/pkg/textfilter"
)

// GenerateRequest identifies where in the story tree the next scene
// grows from. Both fields are empty for the opening scene.
type GenerateRequest struct {
	ChoiceText    string     `json:"choice_text,omitempty"`
	ParentSceneID *uuid.UUID `json:"parent_scene_id,omitempty"`
}

// GenerateResult is everything one generation call produced.
type GenerateResult struct {
	Scene           *story.Scene            `json:"scene"`
	NewCharacters   []*story.Character      `json:"new_characters"`
	ProposedChanges []*story.ProposedChange `json:"proposed_changes"`
}

// GenerateScene runs the full generation pipeline: build context, call
// the model, validate its output, then fan the result out into new
// characters, the scene, and pending proposals, in that order, so every
// record a proposal references exists before the proposal does.
// Failure at any step aborts the remaining steps; committed prior steps
// are not compensated.
func (e *Engine) GenerateScene(ctx context.Context, storyID uuid.UUID, req GenerateRequest) (*GenerateResult, error) {
	s, err := e.storage.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	characters, err := e.storage.ListCharacters(ctx, storyID)
	if err != nil {
		return nil, err
	}

	var lastSceneText string
	if req.ParentSceneID != nil {
		parent, err := e.storage.GetScene(ctx, *req.ParentSceneID)
		if err != nil {
			return nil, err
		}
		lastSceneText = parent.Text
	}

	messages, err := prompts.New().
		WithStory(s).
		WithCharacters(characters).
		WithLastScene(lastSceneText).
		WithChoice(req.ChoiceText).
		Build()
	if err != nil {
		return nil, err
	}

	raw, err := e.llm.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	resp, err := generation.ParseSceneResponse(raw)
	if err != nil {
		e.logger.Warn("Model returned invalid scene output", "story_id", storyID, "error", err)
		return nil, err
	}

	if textfilter.ShouldFilter(s.IsNsfw, s.ContentLevel) {
		resp.SceneText = e.filter.FilterText(resp.SceneText)
		for i, c := range resp.Choices {
			resp.Choices[i] = e.filter.FilterText(c)
		}
	}

	// New characters first, so same-turn updates can resolve to them.
	newCharacters := make([]*story.Character, 0, len(resp.NewCharacters))
	for _, nc := range resp.NewCharacters {
		c := story.NewCharacter(storyID, nc.Name, nc.InitialCanon)
		if err := e.storage.CreateCharacter(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to create character %q: %w", nc.Name, err)
		}
		newCharacters = append(newCharacters, c)
		characters = append(characters, c)
	}

	scene := story.NewScene(storyID, req.ParentSceneID, req.ChoiceText, resp.SceneText, resp.SceneSummary, resp.Choices)
	if err := e.storage.CreateScene(ctx, scene); err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	proposals, err := e.createProposals(ctx, storyID, scene.ID, characters, resp.CharacterUpdates)
	if err != nil {
		return nil, err
	}

	if resp.SceneSummary != "" {
		if err := e.foldRollingSummary(ctx, s, resp.SceneSummary); err != nil {
			return nil, err
		}
	}

	e.logger.Info("Scene generated",
		"story_id", storyID,
		"scene_id", scene.ID,
		"new_characters", len(newCharacters),
		"proposed_changes", len(proposals))

	return &GenerateResult{
		Scene:           scene,
		NewCharacters:   newCharacters,
		ProposedChanges: proposals,
	}, nil
}

// createProposals stages one pending change per character_updates entry
// that resolves to an existing character. Entries naming unknown
// characters are dropped silently. Names are walked in sorted order so
// creation order is stable.
func (e *Engine) createProposals(ctx context.Context, storyID, sceneID uuid.UUID, characters []*story.Character, updates map[string]generation.CharacterUpdate) ([]*story.ProposedChange, error) {
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)

	proposals := make([]*story.ProposedChange, 0, len(names))
	for _, name := range names {
		target := resolveByName(characters, name)
		if target == nil {
			e.logger.Debug("Dropping update for unknown character", "story_id", storyID, "name", name)
			continue
		}

		update := updates[name]
		p := story.NewProposedChange(sceneID, target.ID, canon.Diff{
			Set:   update.Set,
			Unset: update.Unset,
		}, update.Rationale)

		if err := e.storage.CreateProposal(ctx, storyID, p); err != nil {
			return nil, fmt.Errorf("failed to create proposal for %q: %w", name, err)
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// resolveByName returns the earliest-created character with the given
// name. Duplicate names are tolerated, not disambiguated; the list is
// in creation order, so the first match wins.
func resolveByName(characters []*story.Character, name string) *story.Character {
	for _, c := range characters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// foldRollingSummary combines the story's rolling summary with the new
// scene summary through the summarizer and persists the story.
func (e *Engine) foldRollingSummary(ctx context.Context, s *story.Story, sceneSummary string) error {
	folded, err := e.llm.SummaryCompletion(ctx, prompts.SummaryMessages(s.RollingSummary, sceneSummary))
	if err != nil {
		return fmt.Errorf("summary call failed: %w", err)
	}
	if folded == "" {
		folded = sceneSummary
	}

	s.RollingSummary = folded
	if err := e.storage.UpdateStory(ctx, s); err != nil {
		return fmt.Errorf("failed to persist rolling summary: %w", err)
	}
	return nil
}
