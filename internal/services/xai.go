package services

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/inkfall/fableforge/pkg/chat"
)

const (
	xaiBaseURL = "https://api.x.ai/v1"

	DefaultXAITemperature = 0.8
	DefaultXAIMaxTokens   = 2000

	SummaryXAITemperature = 0.3
	SummaryXAIMaxTokens   = 600
)

// XAIService implements LLMService against xAI's OpenAI-compatible API.
type XAIService struct {
	client           *openai.Client
	modelName        string
	summaryModelName string
	logger           *slog.Logger
}

var _ LLMService = (*XAIService)(nil)

// NewXAIService creates a new xAI service. If summaryModelName is
// empty, the primary model handles summary folds too.
func NewXAIService(apiKey, modelName, summaryModelName string, logger *slog.Logger) *XAIService {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = xaiBaseURL

	if summaryModelName == "" {
		summaryModelName = modelName
	}

	return &XAIService{
		client:           openai.NewClientWithConfig(cfg),
		modelName:        modelName,
		summaryModelName: summaryModelName,
		logger:           logger,
	}
}

// InitModel is a no-op; xAI models need no explicit initialization.
func (x *XAIService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

func (x *XAIService) IsModelReady(ctx context.Context, modelName string) (bool, error) {
	if _, err := x.client.GetModel(ctx, modelName); err != nil {
		x.logger.Warn("Model not ready", "model", modelName, "error", err)
		return false, nil
	}
	return true, nil
}

func (x *XAIService) ChatCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	return x.chatCompletion(ctx, messages, x.modelName, DefaultXAITemperature, DefaultXAIMaxTokens)
}

func (x *XAIService) SummaryCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	return x.chatCompletion(ctx, messages, x.summaryModelName, SummaryXAITemperature, SummaryXAIMaxTokens)
}

func (x *XAIService) chatCompletion(ctx context.Context, messages []chat.ChatMessage, modelName string, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       modelName,
		Messages:    toOpenAIMessages(messages),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	resp, err := x.client.CreateChatCompletion(ctx, req)
	if err != nil {
		x.logger.Error("xAI chat completion failed", "model", modelName, "error", err)
		return "", fmt.Errorf("xai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content in xai response")
	}

	x.logger.Debug("xAI chat completion",
		"model", modelName,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []chat.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}
