package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfall/fableforge/internal/services"
	"github.com/inkfall/fableforge/internal/storage"
)

func TestHealth_OK(t *testing.T) {
	store := storage.NewMockStorage()
	llm := services.NewMockLLMAPI()
	h := NewHealthHandler(store, llm, "grok-3-latest", slog.Default())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Storage)
	assert.True(t, resp.ModelReady)
	assert.Equal(t, []string{"grok-3-latest"}, llm.IsModelReadyCalls)
}

func TestHealth_ModelNotReady(t *testing.T) {
	store := storage.NewMockStorage()
	llm := services.NewMockLLMAPI()
	llm.IsModelReadyFunc = func(ctx context.Context, modelName string) (bool, error) {
		return false, errors.New("model warming up")
	}
	h := NewHealthHandler(store, llm, "grok-3-latest", slog.Default())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.ModelReady)
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	h := NewHealthHandler(storage.NewMockStorage(), services.NewMockLLMAPI(), "grok-3-latest", slog.Default())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
