package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/hiddengem/nova-travel/internal/llm"
	"github.com/hiddengem/nova-travel/internal/logger"
	"github.com/hiddengem/nova-travel/internal/memory"
	"github.com/hiddengem/nova-travel/internal/models"
	"github.com/hiddengem/nova-travel/internal/prompts"
	"github.com/hiddengem/nova-travel/internal/stages"
)

const (
	maxTokens   = 8192
	temperature = 0.7

	// Minimum suggestions per map batch; batch ordinals are derived from it.
	batchSize = 6
)

// ChatHandler is the conversation orchestrator: it advances one turn of the
// trip-planning conversation against the generation provider.
type ChatHandler struct {
	provider llm.Provider
	memory   *memory.Manager
	log      *logger.Logger
}

func NewChatHandler(provider llm.Provider, mem *memory.Manager, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		provider: provider,
		memory:   mem,
		log:      log,
	}
}

// ProcessTurn interprets one user utterance and produces the response
// envelope plus the updated trip profile.
//
// Only input validation surfaces as an error. Any generator-side failure
// (network, timeout, unparseable completion) degrades to a fallback result
// that preserves the caller's profile; the conversation never dies on a bad
// completion.
func (h *ChatHandler) ProcessTurn(ctx context.Context, request *models.TurnRequest) (*models.TurnResult, error) {
	if err := h.validateRequest(request); err != nil {
		return nil, err
	}

	history, err := h.memory.Turns(ctx, request.SessionID)
	if err != nil {
		h.log.Warn("failed to load session history", "session_id", request.SessionID, "error", err)
		history = nil
	}

	if err := h.memory.SaveUserMessage(ctx, request.SessionID, "", request.Message); err != nil {
		h.log.Warn("failed to save user message", "session_id", request.SessionID, "error", err)
	}

	completion, err := h.provider.Generate(ctx, &llm.GenerateRequest{
		SystemPrompt: prompts.PersonaPrompt(request.Authenticated),
		Prompt:       prompts.BuildTurnPrompt(request.Message, request.FormData),
		History:      history,
		MaxTokens:    maxTokens,
		Temperature:  temperature,
	})
	if err != nil {
		h.log.Error("generator call failed", "session_id", request.SessionID, "error", err)
		return h.fallbackResult(ctx, request), nil
	}

	payload, err := prompts.ParsePayload(completion.Content)
	if err != nil {
		h.log.Warn("unparseable generator payload", "session_id", request.SessionID, "error", err)
		return h.fallbackResult(ctx, request), nil
	}

	result := h.assembleResult(ctx, request, payload)

	if err := h.memory.SaveAssistantMessage(ctx, request.SessionID, "", result.Response); err != nil {
		h.log.Warn("failed to save assistant message", "session_id", request.SessionID, "error", err)
	}

	h.log.Info("turn processed",
		"session_id", request.SessionID,
		"has_stage", result.TravelStage != nil,
		"has_suggestions", result.FunctionCall != nil)

	return result, nil
}

func (h *ChatHandler) validateRequest(request *models.TurnRequest) error {
	if request.SessionID == "" {
		return fmt.Errorf("%w: sessionId is required", models.ErrInvalidInput)
	}
	if strings.TrimSpace(request.Message) == "" {
		return fmt.Errorf("%w: message is empty", models.ErrInvalidInput)
	}
	return nil
}

// assembleResult merges the parsed payload into the caller's profile and
// applies stage clamping and suggestion batch numbering.
func (h *ChatHandler) assembleResult(ctx context.Context, request *models.TurnRequest, payload *models.GeneratorPayload) *models.TurnResult {
	merged := models.Merge(request.FormData, payload.FormData)

	result := &models.TurnResult{
		Response:     payload.Response,
		FormData:     merged,
		NextQuestion: payload.NextQuestion,
	}

	if payload.TravelStage != nil {
		result.TravelStage = h.clampStage(request.FormData, merged, payload.TravelStage)
		merged.TripStage = &result.TravelStage.Current
	}

	if payload.FunctionCall != nil && payload.FunctionCall.Data != nil && len(payload.FunctionCall.Data.Suggestions) > 0 {
		result.FunctionCall = h.numberBatch(ctx, request.SessionID, payload.FunctionCall)
		merged.Suggestions = append(merged.Suggestions, result.FunctionCall.Data.Suggestions...)
	}

	return result
}

// clampStage bounds the generator's advisory stage against the transition
// guards and the known stage table. Progression never moves backward.
func (h *ChatHandler) clampStage(prior, merged *models.TripProfile, proposed *models.StageState) *models.StageState {
	current := stages.First
	if prior != nil && prior.TripStage != nil {
		current = *prior.TripStage
	}

	allowed := stages.AllowedStage(current, proposed.Current, merged)

	state := &models.StageState{
		Current:      allowed,
		Name:         proposed.Name,
		Progress:     models.ClampProgress(proposed.Progress),
		Requirements: proposed.Requirements,
	}

	// The generator described the stage it proposed; when clamped to a
	// different one, re-describe from the static table.
	if allowed != proposed.Current {
		if def, err := stages.Describe(allowed); err == nil {
			state.Name = def.Name
			state.Requirements = def.Checklist
		}
		h.log.Debug("stage proposal clamped", "proposed", proposed.Current, "allowed", allowed)
	}
	return state
}

// numberBatch assigns the next batch ordinal to a turn's suggestions based
// on how many the session has already received.
func (h *ChatHandler) numberBatch(ctx context.Context, sessionID string, call *models.FunctionCall) *models.FunctionCall {
	previous, err := h.memory.SuggestionCount(ctx, sessionID)
	if err != nil {
		h.log.Warn("failed to read suggestion count", "session_id", sessionID, "error", err)
	}
	batch := (previous+batchSize-1)/batchSize + 1

	suggestions := make([]models.LocationSuggestion, len(call.Data.Suggestions))
	for i, s := range call.Data.Suggestions {
		s.Batch = batch
		suggestions[i] = s
	}

	if _, err := h.memory.AddSuggestions(ctx, sessionID, len(suggestions)); err != nil {
		h.log.Warn("failed to record suggestion count", "session_id", sessionID, "error", err)
	}

	return &models.FunctionCall{
		Type: call.Type,
		Data: &models.MapData{
			Coordinates: call.Data.Coordinates,
			Description: call.Data.Description,
			Suggestions: suggestions,
		},
	}
}

// fallbackResult is the degraded envelope: a generic apology and the prior
// profile untouched. The fallback reply still joins the history so the
// conversation transcript stays coherent.
func (h *ChatHandler) fallbackResult(ctx context.Context, request *models.TurnRequest) *models.TurnResult {
	if err := h.memory.SaveAssistantMessage(ctx, request.SessionID, "", prompts.FallbackMessage); err != nil {
		h.log.Warn("failed to save fallback message", "session_id", request.SessionID, "error", err)
	}
	return &models.TurnResult{
		Response: prompts.FallbackMessage,
		FormData: request.FormData,
	}
}
