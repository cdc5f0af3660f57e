package handlers

import (
	"log/slog"
	"net/http"

	"github.com/inkfall/fableforge/internal/services"
	"github.com/inkfall/fableforge/internal/storage"
)

// HealthHandler reports storage and model readiness.
type HealthHandler struct {
	storage   storage.Storage
	llm       services.LLMService
	modelName string
	logger    *slog.Logger
}

type HealthResponse struct {
	Status     string `json:"status"`
	Storage    string `json:"storage"`
	ModelReady bool   `json:"model_ready"`
}

func NewHealthHandler(store storage.Storage, llm services.LLMService, modelName string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage:   store,
		llm:       llm,
		modelName: modelName,
		logger:    logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	resp := HealthResponse{Status: "ok", Storage: "ok"}

	if err := h.storage.Ping(r.Context()); err != nil {
		h.logger.Error("Storage health check failed", "error", err)
		resp.Status = "degraded"
		resp.Storage = "unreachable"
	}

	ready, err := h.llm.IsModelReady(r.Context(), h.modelName)
	if err != nil {
		h.logger.Warn("Model readiness check failed", "error", err)
	}
	resp.ModelReady = ready

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, status, resp)
}
