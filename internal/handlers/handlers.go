package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/generation"
	"github.com/inkfall/fableforge/pkg/story"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeDomainError maps domain errors onto HTTP status codes:
// missing records are 404, a decision on a settled proposal is a 409
// conflict, and schema-invalid model output is a 422.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, logger, http.StatusNotFound, "Not found")
	case errors.Is(err, story.ErrAlreadyDecided):
		writeError(w, logger, http.StatusConflict, "Change has already been decided")
	case errors.Is(err, generation.ErrInvalidResponse):
		writeError(w, logger, http.StatusUnprocessableEntity, "Model returned invalid output")
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeAndValidate decodes a JSON body into v and runs struct
// validation. Returns a client-facing error message on failure.
func decodeAndValidate(r *http.Request, v any) (string, bool) {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return "Invalid request body", false
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return "Invalid field: " + verrs[0].Namespace(), false
		}
		return "Invalid request body", false
	}
	return "", true
}
