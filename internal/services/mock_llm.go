package services

import (
	"context"
	"strings"
	"sync"

	"github.com/inkfall/fableforge/pkg/chat"
	"github.com/inkfall/fableforge/pkg/prompts"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	InitModelFunc         func(ctx context.Context, modelName string) error
	IsModelReadyFunc      func(ctx context.Context, modelName string) (bool, error)
	ChatCompletionFunc    func(ctx context.Context, messages []chat.ChatMessage) (string, error)
	SummaryCompletionFunc func(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// Track calls for testing
	InitModelCalls         []string
	IsModelReadyCalls      []string
	ChatCompletionCalls    [][]chat.ChatMessage
	SummaryCompletionCalls [][]chat.ChatMessage

	mu sync.Mutex // protects all fields above
}

var _ LLMService = (*MockLLMAPI)(nil)

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		InitModelCalls:         make([]string, 0),
		IsModelReadyCalls:      make([]string, 0),
		ChatCompletionCalls:    make([][]chat.ChatMessage, 0),
		SummaryCompletionCalls: make([][]chat.ChatMessage, 0),
	}
}

func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLMAPI) IsModelReady(ctx context.Context, modelName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IsModelReadyCalls = append(m.IsModelReadyCalls, modelName)

	if m.IsModelReadyFunc != nil {
		return m.IsModelReadyFunc(ctx, modelName)
	}
	return true, nil
}

func (m *MockLLMAPI) ChatCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCompletionCalls = append(m.ChatCompletionCalls, messages)

	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, messages)
	}

	// Default: a minimal valid scene response.
	return `{"scene_text": "The mock scene unfolds.", "choices": ["Go on", "Turn back"]}`, nil
}

func (m *MockLLMAPI) SummaryCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SummaryCompletionCalls = append(m.SummaryCompletionCalls, messages)

	if m.SummaryCompletionFunc != nil {
		return m.SummaryCompletionFunc(ctx, messages)
	}

	// Default: echo back whatever the fold was asked to combine.
	if len(messages) > 0 && messages[0].Role == chat.ChatRoleSystem &&
		strings.HasPrefix(messages[0].Content, prompts.SummarySystemPrompt[:20]) {
		return "A mock rolling summary.", nil
	}
	return "A mock summary.", nil
}
