package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/story"
)

// CreateCharacterRequest defines the request body for manually adding a
// character to a story.
type CreateCharacterRequest struct {
	Name         string            `json:"name" validate:"required,max=100"`
	InitialCanon map[string]string `json:"initial_canon,omitempty"`
}

func (h *StoriesHandler) serveCharacters(w http.ResponseWriter, r *http.Request, storyID uuid.UUID) {
	switch r.Method {
	case http.MethodGet:
		h.handleListCharacters(w, r, storyID)
	case http.MethodPost:
		h.handleCreateCharacter(w, r, storyID)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
	}
}

func (h *StoriesHandler) handleListCharacters(w http.ResponseWriter, r *http.Request, storyID uuid.UUID) {
	characters, err := h.storage.ListCharacters(r.Context(), storyID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, characters)
}

func (h *StoriesHandler) handleCreateCharacter(w http.ResponseWriter, r *http.Request, storyID uuid.UUID) {
	var req CreateCharacterRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		h.logger.Warn("Invalid create character request", "reason", msg)
		writeError(w, h.logger, http.StatusBadRequest, msg)
		return
	}

	c := story.NewCharacter(storyID, req.Name, req.InitialCanon)
	if err := h.storage.CreateCharacter(r.Context(), c); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Character created", "story_id", storyID, "character_id", c.ID, "name", c.Name)
	writeJSON(w, h.logger, http.StatusCreated, c)
}
