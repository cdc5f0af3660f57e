package services

import (
	"context"

	"github.com/inkfall/fableforge/pkg/chat"
)

// LLMService defines the interface for the external generation
// collaborator. The engine treats it as an opaque function from chat
// messages to raw text; parsing and validation happen downstream.
type LLMService interface {
	// InitModel initializes the LLM model on startup
	InitModel(ctx context.Context, modelName string) error

	// IsModelReady checks if the specified model is ready for use
	IsModelReady(ctx context.Context, modelName string) (bool, error)

	// ChatCompletion generates a scene response with the primary model
	ChatCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// SummaryCompletion generates a rolling-summary fold with the
	// summary model at low temperature
	SummaryCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error)
}
