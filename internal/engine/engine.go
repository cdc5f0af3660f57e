package engine

import (
	"log/slog"

	"github.com/inkfall/fableforge/internal/services"
	"github.com/inkfall/fableforge/internal/storage"
	"github.com/inkfall/fableforge/pkg/textfilter"
)

// Engine sequences generation calls and canon decisions against
// storage. It owns the only write paths that touch character canon
// after creation.
type Engine struct {
	storage storage.Storage
	llm     services.LLMService
	filter  *textfilter.ProfanityFilter
	logger  *slog.Logger
}

// New creates an engine.
func New(store storage.Storage, llm services.LLMService, logger *slog.Logger) *Engine {
	return &Engine{
		storage: store,
		llm:     llm,
		filter:  textfilter.NewProfanityFilter(),
		logger:  logger,
	}
}
