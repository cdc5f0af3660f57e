package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfall/fableforge/internal/engine"
	"github.com/inkfall/fableforge/internal/services"
	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/canon"
	"github.com/inkfall/fableforge/pkg/story"
)

func setupStoriesHandler(t *testing.T) (*StoriesHandler, *storage.MockStorage, *services.MockLLMAPI) {
	t.Helper()
	store := storage.NewMockStorage()
	llm := services.NewMockLLMAPI()
	eng := engine.New(store, llm, slog.Default())
	return NewStoriesHandler(eng, store, slog.Default()), store, llm
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateStory(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)

	w := doJSON(t, h, http.MethodPost, "/v1/stories", CreateStoryRequest{
		Title:   "The Hollow Crown",
		Premise: "A deposed heir returns to a city that has forgotten her.",
		Genre:   "fantasy",
		Tags:    []string{"intrigue"},
		InitialCharacters: []InitialCharacter{
			{Name: "Elara", Personality: "Wary and sharp", Appearance: "Scarred hands", Traits: []string{"stubborn", "loyal"}},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp StoryDetailResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "The Hollow Crown", resp.Story.Title)
	assert.Equal(t, story.DefaultContentLevel, resp.Story.ContentLevel)
	require.Len(t, resp.Characters, 1)
	assert.Equal(t, "Elara", resp.Characters[0].Name)
	assert.Equal(t, "Wary and sharp", resp.Characters[0].Canon["personality"])
	assert.Equal(t, "stubborn, loyal", resp.Characters[0].Canon["traits"])

	stories, err := store.ListStories(context.Background())
	require.NoError(t, err)
	assert.Len(t, stories, 1)
}

func TestCreateStory_Invalid(t *testing.T) {
	h, _, _ := setupStoriesHandler(t)

	tests := []struct {
		name string
		req  CreateStoryRequest
	}{
		{"missing title", CreateStoryRequest{Premise: "A premise long enough to pass."}},
		{"short premise", CreateStoryRequest{Title: "T", Premise: "short"}},
		{"content level out of range", CreateStoryRequest{Title: "T", Premise: "A premise long enough to pass.", ContentLevel: 11}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/v1/stories", tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListStories_NewestFirst(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	ctx := context.Background()

	older := story.NewStory("Older", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, older))
	newer := story.NewStory("Newer", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, newer))

	w := doJSON(t, h, http.MethodGet, "/v1/stories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stories []*story.Story
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stories))
	require.Len(t, stories, 2)
	assert.Equal(t, "Newer", stories[0].Title)
	assert.Equal(t, "Older", stories[1].Title)
}

func TestStoryDetail(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	ctx := context.Background()

	s := story.NewStory("Detail", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, s))
	c := story.NewCharacter(s.ID, "Elara", nil)
	require.NoError(t, store.CreateCharacter(ctx, c))
	sc := story.NewScene(s.ID, nil, "", "A scene.", "", []string{"A", "B"})
	require.NoError(t, store.CreateScene(ctx, sc))
	p := story.NewProposedChange(sc.ID, c.ID, canon.Diff{Set: map[string]string{"mood": "calm"}}, "")
	require.NoError(t, store.CreateProposal(ctx, s.ID, p))

	w := doJSON(t, h, http.MethodGet, "/v1/stories/"+s.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StoryDetailResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, s.ID, resp.Story.ID)
	require.Len(t, resp.Characters, 1)
	assert.Equal(t, 1, resp.PendingCount)
}

func TestStoryDetail_NotFound(t *testing.T) {
	h, _, _ := setupStoriesHandler(t)

	w := doJSON(t, h, http.MethodGet, "/v1/stories/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStories_BadID(t *testing.T) {
	h, _, _ := setupStoriesHandler(t)

	w := doJSON(t, h, http.MethodGet, "/v1/stories/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStories_MethodNotAllowed(t *testing.T) {
	h, _, _ := setupStoriesHandler(t)

	w := doJSON(t, h, http.MethodDelete, "/v1/stories", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = doJSON(t, h, http.MethodPut, "/v1/stories/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCharacters_ListAndCreate(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	ctx := context.Background()

	s := story.NewStory("Cast", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, s))

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/characters", s.ID), CreateCharacterRequest{
		Name:         "Brom",
		InitialCanon: map[string]string{"occupation": "blacksmith"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created story.Character
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "Brom", created.Name)
	assert.Equal(t, "blacksmith", created.Canon["occupation"])

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/v1/stories/%s/characters", s.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []*story.Character
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreateCharacter_StoryNotFound(t *testing.T) {
	h, _, _ := setupStoriesHandler(t)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/characters", uuid.NewString()), CreateCharacterRequest{Name: "Orphan"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCharacter_MissingName(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	ctx := context.Background()

	s := story.NewStory("Cast", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, s))

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/characters", s.ID), CreateCharacterRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
