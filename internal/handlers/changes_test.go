package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfall/fableforge/internal/engine"
	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/canon"
	"github.com/inkfall/fableforge/pkg/chat"
	"github.com/inkfall/fableforge/pkg/story"
)

func boolPtr(b bool) *bool { return &b }

func seedPendingChange(t *testing.T, store *storage.MockStorage) (*story.Story, *story.Character, *story.ProposedChange) {
	t.Helper()
	ctx := context.Background()

	s := story.NewStory("The Hollow Crown", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, s))
	c := story.NewCharacter(s.ID, "Elara", map[string]string{"mood": "wary"})
	require.NoError(t, store.CreateCharacter(ctx, c))
	sc := story.NewScene(s.ID, nil, "", "A scene.", "", []string{"A", "B"})
	require.NoError(t, store.CreateScene(ctx, sc))
	p := story.NewProposedChange(sc.ID, c.ID, canon.Diff{Set: map[string]string{"mood": "furious"}}, "Temper broke.")
	require.NoError(t, store.CreateProposal(ctx, s.ID, p))

	return s, c, p
}

func TestListChanges(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	s, _, p := seedPendingChange(t, store)

	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/v1/stories/%s/changes", s.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pending []*story.ProposedChange
	require.NoError(t, json.NewDecoder(w.Body).Decode(&pending))
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].ID)
	assert.Equal(t, story.StatusProposed, pending[0].Status)
}

func TestDecideChange_Accept(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	s, c, p := seedPendingChange(t, store)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/changes/%s", s.ID, p.ID), DecideRequest{Accept: boolPtr(true)})
	require.Equal(t, http.StatusOK, w.Code)

	var result engine.DecisionResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, story.StatusAccepted, result.Change.Status)
	require.NotNil(t, result.Character)
	assert.Equal(t, "furious", result.Character.Canon["mood"])

	stored, err := store.GetCharacter(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "furious", stored.Canon["mood"])
}

func TestDecideChange_Reject(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	s, c, p := seedPendingChange(t, store)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/changes/%s", s.ID, p.ID), DecideRequest{Accept: boolPtr(false)})
	require.Equal(t, http.StatusOK, w.Code)

	var result engine.DecisionResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, story.StatusRejected, result.Change.Status)
	assert.Nil(t, result.Character)

	stored, err := store.GetCharacter(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "wary", stored.Canon["mood"])
}

func TestDecideChange_Conflict(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	s, _, p := seedPendingChange(t, store)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/changes/%s", s.ID, p.ID), DecideRequest{Accept: boolPtr(true)})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/changes/%s", s.ID, p.ID), DecideRequest{Accept: boolPtr(false)})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDecideChange_MissingAccept(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	s, _, p := seedPendingChange(t, store)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/changes/%s", s.ID, p.ID), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecideChange_NotFound(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	s, _, _ := seedPendingChange(t, store)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/changes/%s", s.ID, uuid.NewString()), DecideRequest{Accept: boolPtr(true)})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerate(t *testing.T) {
	h, store, llm := setupStoriesHandler(t)
	ctx := context.Background()

	s := story.NewStory("Gen", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, s))

	llm.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{"scene_text": "The story begins.", "choices": ["Press on", "Wait"], "scene_summary": "It began."}`, nil
	}

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/generate", s.ID), GenerateRequest{})
	require.Equal(t, http.StatusCreated, w.Code)

	var result engine.GenerateResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, "The story begins.", result.Scene.Text)
	require.Len(t, result.Scene.Choices, 2)
}

func TestGenerate_StoryNotFound(t *testing.T) {
	h, _, _ := setupStoriesHandler(t)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/generate", uuid.NewString()), GenerateRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerate_InvalidModelOutput(t *testing.T) {
	h, store, llm := setupStoriesHandler(t)
	ctx := context.Background()

	s := story.NewStory("Gen", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, s))

	llm.ChatCompletionFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "not json at all", nil
	}

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/generate", s.ID), GenerateRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGenerate_BadParentSceneID(t *testing.T) {
	h, store, _ := setupStoriesHandler(t)
	ctx := context.Background()

	s := story.NewStory("Gen", "A premise long enough to pass validation.")
	require.NoError(t, store.CreateStory(ctx, s))

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/v1/stories/%s/generate", s.ID), map[string]any{
		"parent_scene_id": "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
