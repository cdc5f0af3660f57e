package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/internal/engine"
	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/story"
)

// StoriesHandler serves the story tree:
//
//	GET  /v1/stories                      - list stories, newest first
//	POST /v1/stories                      - create a story (with initial characters)
//	GET  /v1/stories/{id}                 - story detail
//	GET  /v1/stories/{id}/characters      - list characters
//	POST /v1/stories/{id}/characters      - manually add a character
//	POST /v1/stories/{id}/generate        - generate the next scene
//	GET  /v1/stories/{id}/changes         - pending proposed changes
//	POST /v1/stories/{id}/changes/{chid}  - accept/reject a proposed change
type StoriesHandler struct {
	engine  *engine.Engine
	storage storage.Storage
	logger  *slog.Logger
}

func NewStoriesHandler(eng *engine.Engine, store storage.Storage, logger *slog.Logger) *StoriesHandler {
	return &StoriesHandler{
		engine:  eng,
		storage: store,
		logger:  logger,
	}
}

func (h *StoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/stories"), "/")
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}
		return
	}

	segments := strings.Split(path, "/")
	storyID, err := uuid.Parse(segments[0])
	if err != nil {
		h.logger.Warn("Invalid story ID", "id", segments[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid story ID format")
		return
	}

	switch {
	case len(segments) == 1:
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
			return
		}
		h.handleDetail(w, r, storyID)

	case len(segments) == 2 && segments[1] == "characters":
		h.serveCharacters(w, r, storyID)

	case len(segments) == 2 && segments[1] == "generate":
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleGenerate(w, r, storyID)

	case len(segments) == 2 && segments[1] == "changes":
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
			return
		}
		h.handleListChanges(w, r, storyID)

	case len(segments) == 3 && segments[1] == "changes":
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		changeID, err := uuid.Parse(segments[2])
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid change ID format")
			return
		}
		h.handleDecideChange(w, r, changeID)

	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

// InitialCharacter is a character supplied at story creation. Its
// structured fields become the character's initial canon.
type InitialCharacter struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Appearance  string   `json:"appearance,omitempty" validate:"max=500"`
	Personality string   `json:"personality" validate:"required,max=1000"`
	Background  string   `json:"background,omitempty" validate:"max=1000"`
	Traits      []string `json:"traits,omitempty"`
}

// CreateStoryRequest defines the request body for creating a story.
type CreateStoryRequest struct {
	Title             string             `json:"title" validate:"required,max=200"`
	Premise           string             `json:"premise" validate:"required,min=10,max=5000"`
	Genre             string             `json:"genre,omitempty" validate:"max=100"`
	Tags              []string           `json:"tags,omitempty"`
	IsNsfw            bool               `json:"is_nsfw"`
	ContentLevel      int                `json:"content_level,omitempty" validate:"omitempty,min=1,max=10"`
	Tone              map[string]string  `json:"tone,omitempty"`
	ModelParams       map[string]any     `json:"model_params,omitempty"`
	InitialCharacters []InitialCharacter `json:"initial_characters,omitempty" validate:"dive"`
}

// StoryDetailResponse is a story plus its characters and the number of
// changes awaiting review.
type StoryDetailResponse struct {
	Story        *story.Story       `json:"story"`
	Characters   []*story.Character `json:"characters"`
	PendingCount int                `json:"pending_count"`
}

func (h *StoriesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storage.ListStories(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stories)
}

func (h *StoriesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateStoryRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		h.logger.Warn("Invalid create story request", "reason", msg)
		writeError(w, h.logger, http.StatusBadRequest, msg)
		return
	}

	s := story.NewStory(req.Title, req.Premise)
	s.Genre = req.Genre
	s.Tags = req.Tags
	s.IsNsfw = req.IsNsfw
	if req.ContentLevel != 0 {
		s.ContentLevel = req.ContentLevel
	}
	s.Tone = req.Tone
	s.ModelParams = req.ModelParams

	if err := s.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.storage.CreateStory(r.Context(), s); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	characters := make([]*story.Character, 0, len(req.InitialCharacters))
	for _, ic := range req.InitialCharacters {
		c := story.NewCharacter(s.ID, ic.Name, initialCanonFrom(ic))
		if err := h.storage.CreateCharacter(r.Context(), c); err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		characters = append(characters, c)
	}

	h.logger.Info("Story created", "story_id", s.ID, "characters", len(characters))
	writeJSON(w, h.logger, http.StatusCreated, StoryDetailResponse{
		Story:      s,
		Characters: characters,
	})
}

// initialCanonFrom maps an initial character's structured fields onto
// free-form canon attributes.
func initialCanonFrom(ic InitialCharacter) map[string]string {
	c := map[string]string{}
	if ic.Personality != "" {
		c["personality"] = ic.Personality
	}
	if ic.Appearance != "" {
		c["appearance"] = ic.Appearance
	}
	if ic.Background != "" {
		c["background"] = ic.Background
	}
	if len(ic.Traits) > 0 {
		c["traits"] = strings.Join(ic.Traits, ", ")
	}
	return c
}

func (h *StoriesHandler) handleDetail(w http.ResponseWriter, r *http.Request, storyID uuid.UUID) {
	s, err := h.storage.GetStory(r.Context(), storyID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	characters, err := h.storage.ListCharacters(r.Context(), storyID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	pending, err := h.storage.ListPendingProposals(r.Context(), storyID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, StoryDetailResponse{
		Story:        s,
		Characters:   characters,
		PendingCount: len(pending),
	})
}
