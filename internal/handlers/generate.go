package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/internal/engine"
)

// GenerateRequest defines the request body for generating the next
// scene of a story. Both fields are empty for the opening scene.
type GenerateRequest struct {
	ChoiceText    string `json:"choice_text,omitempty" validate:"max=2000"`
	ParentSceneID string `json:"parent_scene_id,omitempty" validate:"omitempty,uuid"`
}

func (h *StoriesHandler) handleGenerate(w http.ResponseWriter, r *http.Request, storyID uuid.UUID) {
	var req GenerateRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		h.logger.Warn("Invalid generate request", "reason", msg)
		writeError(w, h.logger, http.StatusBadRequest, msg)
		return
	}

	genReq := engine.GenerateRequest{ChoiceText: req.ChoiceText}
	if req.ParentSceneID != "" {
		id, err := uuid.Parse(req.ParentSceneID)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid parent scene ID format")
			return
		}
		genReq.ParentSceneID = &id
	}

	result, err := h.engine.GenerateScene(r.Context(), storyID, genReq)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Scene generated",
		"story_id", storyID,
		"scene_id", result.Scene.ID,
		"new_characters", len(result.NewCharacters),
		"proposed_changes", len(result.ProposedChanges))
	writeJSON(w, h.logger, http.StatusCreated, result)
}
