package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/story"
)

func setupProfileHandler(t *testing.T) (*ProfileHandler, *storage.MockStorage) {
	t.Helper()
	store := storage.NewMockStorage()
	return NewProfileHandler(store, "default-profile", slog.Default()), store
}

func TestGetProfile_CreatesDefaults(t *testing.T) {
	h, store := setupProfileHandler(t)

	w := doJSON(t, h, http.MethodGet, "/v1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p story.Profile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, "default-profile", p.OwnerID)
	assert.Equal(t, story.DefaultContentLevel, p.DefaultContentLevel)
	assert.False(t, p.DefaultNsfw)

	// First read persisted the defaults.
	stored, err := store.GetProfile(context.Background(), "default-profile")
	require.NoError(t, err)
	assert.Equal(t, story.DefaultContentLevel, stored.DefaultContentLevel)
}

func TestPutProfile_MergesFields(t *testing.T) {
	h, store := setupProfileHandler(t)

	tags := []string{"mystery", "noir"}
	level := 7
	w := doJSON(t, h, http.MethodPut, "/v1/profile", UpdateProfileRequest{
		DefaultTags:         &tags,
		DefaultContentLevel: &level,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var p story.Profile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, tags, p.DefaultTags)
	assert.Equal(t, 7, p.DefaultContentLevel)

	// Omitted fields keep their stored values on a later update.
	nsfw := true
	w = doJSON(t, h, http.MethodPut, "/v1/profile", UpdateProfileRequest{DefaultNsfw: &nsfw})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := store.GetProfile(context.Background(), "default-profile")
	require.NoError(t, err)
	assert.True(t, stored.DefaultNsfw)
	assert.Equal(t, tags, stored.DefaultTags)
	assert.Equal(t, 7, stored.DefaultContentLevel)
}

func TestPutProfile_InvalidContentLevel(t *testing.T) {
	h, _ := setupProfileHandler(t)

	level := 11
	w := doJSON(t, h, http.MethodPut, "/v1/profile", UpdateProfileRequest{DefaultContentLevel: &level})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile_MethodNotAllowed(t *testing.T) {
	h, _ := setupProfileHandler(t)

	w := doJSON(t, h, http.MethodDelete, "/v1/profile", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
