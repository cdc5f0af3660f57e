package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidResponse marks model output that failed JSON parsing or
// schema validation. The whole generation call fails; no partial trust.
var ErrInvalidResponse = errors.New("invalid generation output")

var validate = validator.New(validator.WithRequiredStructEnabled())

// CharacterUpdate is one entry of character_updates: a proposed diff
// against a named character's canon.
type CharacterUpdate struct {
	Set       map[string]string `json:"set"`
	Unset     []string          `json:"unset"`
	Rationale string            `json:"rationale,omitempty"`
}

// NewCharacter is a character introduced by the scene, with its
// starting canon.
type NewCharacter struct {
	Name         string            `json:"name" validate:"required"`
	InitialCanon map[string]string `json:"initial_canon"`
}

// SceneResponse is the structured result of a scene generation call.
// The model must return exactly this shape as JSON.
type SceneResponse struct {
	SceneText        string                     `json:"scene_text" validate:"required"`
	Choices          []string                   `json:"choices" validate:"required,min=2,max=4,dive,required"`
	SceneSummary     string                     `json:"scene_summary,omitempty"`
	CharacterUpdates map[string]CharacterUpdate `json:"character_updates"`
	NewCharacters    []NewCharacter             `json:"new_characters" validate:"dive"`
}

// ParseSceneResponse parses and validates raw model output. Any parse
// or validation failure wraps ErrInvalidResponse.
func ParseSceneResponse(raw string) (*SceneResponse, error) {
	var resp SceneResponse
	if err := parseJSON(raw, &resp); err != nil {
		return nil, err
	}

	if resp.CharacterUpdates == nil {
		resp.CharacterUpdates = map[string]CharacterUpdate{}
	}
	for name, update := range resp.CharacterUpdates {
		if update.Set == nil {
			update.Set = map[string]string{}
		}
		if update.Unset == nil {
			update.Unset = []string{}
		}
		resp.CharacterUpdates[name] = update
	}
	for i := range resp.NewCharacters {
		if resp.NewCharacters[i].InitialCanon == nil {
			resp.NewCharacters[i].InitialCanon = map[string]string{}
		}
	}

	return &resp, nil
}

// parseJSON strips any markdown fencing, unmarshals into v, and runs
// struct validation.
func parseJSON(raw string, v any) error {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: not valid JSON: %v", ErrInvalidResponse, err)
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}

// StripCodeFences removes a surrounding markdown code fence, if present.
// Models sometimes wrap JSON output in ```json blocks despite
// instructions not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language hint on the opening fence line.
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
