package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/hiddengem/nova-travel/internal/models"
)

const maxAttempts = 3

// GeminiProvider talks to the Google generative language API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiProvider{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Generate sends one turn to Gemini with the session history attached.
// Transient upstream failures are retried with a short backoff; the caller's
// context bounds the whole exchange.
func (g *GeminiProvider) Generate(ctx context.Context, request *GenerateRequest) (*Completion, error) {
	model := g.client.GenerativeModel(g.model)
	if request.SystemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(request.SystemPrompt))
	}
	if request.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(request.MaxTokens))
	}
	model.SetTemperature(float32(request.Temperature))

	cs := model.StartChat()
	cs.History = historyToContent(request.History)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		res, err := cs.SendMessage(callCtx, genai.Text(request.Prompt))
		cancel()
		if err == nil {
			return completionFromResponse(res), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("gemini call failed after %d attempts: %w", maxAttempts, lastErr)
}

func (g *GeminiProvider) Close() error {
	return g.client.Close()
}

func historyToContent(history []models.ConversationTurn) []*genai.Content {
	var contents []*genai.Content
	for _, turn := range history {
		role := "user"
		if turn.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}

func completionFromResponse(res *genai.GenerateContentResponse) *Completion {
	var content string
	if len(res.Candidates) > 0 && res.Candidates[0].Content != nil {
		for _, part := range res.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				content += string(txt)
			}
		}
	}
	completion := &Completion{Content: content}
	if res.UsageMetadata != nil {
		completion.Usage = &Usage{
			InputTokens:  int(res.UsageMetadata.PromptTokenCount),
			OutputTokens: int(res.UsageMetadata.CandidatesTokenCount),
		}
	}
	return completion
}
