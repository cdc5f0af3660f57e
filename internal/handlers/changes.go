package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// DecideRequest defines the request body for deciding a proposed
// change. Accept is a pointer so that omitting it is a validation
// error rather than an implicit rejection.
type DecideRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

func (h *StoriesHandler) handleListChanges(w http.ResponseWriter, r *http.Request, storyID uuid.UUID) {
	pending, err := h.storage.ListPendingProposals(r.Context(), storyID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, pending)
}

func (h *StoriesHandler) handleDecideChange(w http.ResponseWriter, r *http.Request, changeID uuid.UUID) {
	var req DecideRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		h.logger.Warn("Invalid decide request", "reason", msg)
		writeError(w, h.logger, http.StatusBadRequest, msg)
		return
	}

	result, err := h.engine.DecideChange(r.Context(), changeID, *req.Accept)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Change decided",
		"change_id", changeID,
		"status", result.Change.Status,
		"character_id", result.Change.CharacterID)
	writeJSON(w, h.logger, http.StatusOK, result)
}
