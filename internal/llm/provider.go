package llm

import (
	"context"

	"github.com/hiddengem/nova-travel/internal/models"
)

// Provider defines the interface for text-generation backends.
type Provider interface {
	Generate(ctx context.Context, request *GenerateRequest) (*Completion, error)
}

// GenerateRequest is the structured request sent to a provider.
type GenerateRequest struct {
	SystemPrompt string
	Prompt       string
	History      []models.ConversationTurn
	MaxTokens    int
	Temperature  float64
}

// Completion is the raw provider response before payload parsing.
type Completion struct {
	Content string
	Usage   *Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}
