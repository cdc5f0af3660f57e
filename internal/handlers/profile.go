package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/story"
)

// ProfileHandler serves the owner's authoring profile:
//
//	GET /v1/profile - fetch the profile, creating defaults on first read
//	PUT /v1/profile - merge-update the profile
type ProfileHandler struct {
	storage storage.Storage
	ownerID string
	logger  *slog.Logger
}

func NewProfileHandler(store storage.Storage, ownerID string, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		storage: store,
		ownerID: ownerID,
		logger:  logger,
	}
}

// UpdateProfileRequest defines the request body for updating the
// profile. Nil fields keep their stored values.
type UpdateProfileRequest struct {
	DefaultTags         *[]string `json:"default_tags,omitempty"`
	DefaultNsfw         *bool     `json:"default_nsfw,omitempty"`
	DefaultContentLevel *int      `json:"default_content_level,omitempty" validate:"omitempty,min=1,max=10"`
	DefaultStoryPrompt  *string   `json:"default_story_prompt,omitempty" validate:"omitempty,max=5000"`
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, PUT")
	}
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadOrCreate(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, p)
}

func (h *ProfileHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		h.logger.Warn("Invalid profile update", "reason", msg)
		writeError(w, h.logger, http.StatusBadRequest, msg)
		return
	}

	p, err := h.loadOrCreate(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	if req.DefaultTags != nil {
		p.DefaultTags = *req.DefaultTags
	}
	if req.DefaultNsfw != nil {
		p.DefaultNsfw = *req.DefaultNsfw
	}
	if req.DefaultContentLevel != nil {
		p.DefaultContentLevel = *req.DefaultContentLevel
	}
	if req.DefaultStoryPrompt != nil {
		p.DefaultStoryPrompt = *req.DefaultStoryPrompt
	}

	if err := h.storage.PutProfile(r.Context(), p); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Profile updated", "owner_id", p.OwnerID)
	writeJSON(w, h.logger, http.StatusOK, p)
}

// loadOrCreate returns the stored profile, persisting defaults when no
// profile exists yet.
func (h *ProfileHandler) loadOrCreate(r *http.Request) (*story.Profile, error) {
	p, err := h.storage.GetProfile(r.Context(), h.ownerID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	p = story.NewProfile(h.ownerID)
	if err := h.storage.PutProfile(r.Context(), p); err != nil {
		return nil, err
	}
	h.logger.Info("Profile created with defaults", "owner_id", h.ownerID)
	return p, nil
}
