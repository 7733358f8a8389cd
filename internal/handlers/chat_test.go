package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hiddengem/nova-travel/internal/llm"
	"github.com/hiddengem/nova-travel/internal/logger"
	"github.com/hiddengem/nova-travel/internal/memory"
	"github.com/hiddengem/nova-travel/internal/models"
	"github.com/hiddengem/nova-travel/internal/prompts"
)

type fakeProvider struct {
	responses []string
	err       error
	calls     int
	lastReq   *llm.GenerateRequest
}

func (f *fakeProvider) Generate(_ context.Context, req *llm.GenerateRequest) (*llm.Completion, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return &llm.Completion{Content: f.responses[idx]}, nil
}

func newTestHandler(t *testing.T, provider llm.Provider) (*ChatHandler, *memory.Manager) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	mem := memory.NewManager(memory.NewLocalStore(time.Hour))
	return NewChatHandler(provider, mem, log), mem
}

func marshalPayload(t *testing.T, payload *models.GeneratorPayload) string {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return string(data)
}

func strPtr(s string) *string { return &s }

func TestEmptyTurnRejectedBeforeUpstream(t *testing.T) {
	provider := &fakeProvider{}
	handler, _ := newTestHandler(t, provider)

	for _, message := range []string{"", "   ", "\n\t "} {
		_, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
			SessionID: "s1",
			Message:   message,
		})
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Fatalf("message %q: expected ErrInvalidInput, got %v", message, err)
		}
	}
	if provider.calls != 0 {
		t.Fatalf("generator must not be called for invalid turns, got %d calls", provider.calls)
	}
}

func TestMissingSessionRejected(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeProvider{})
	_, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{Message: "hi"})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProfileMergeAcrossTurns(t *testing.T) {
	turn1 := marshalPayload(t, &models.GeneratorPayload{
		Response: "Tokyo it is!",
		FormData: &models.TripProfile{
			Destination: strPtr("Tokyo"),
			Interests:   []string{"food"},
		},
	})
	turn2 := marshalPayload(t, &models.GeneratorPayload{
		Response: "Vintage shopping noted.",
		FormData: &models.TripProfile{
			Interests: []string{"vintage shopping"},
		},
	})
	provider := &fakeProvider{responses: []string{turn1, turn2}}
	handler, _ := newTestHandler(t, provider)

	first, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "I want to go to Tokyo",
		FormData:  &models.TripProfile{},
	})
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if *first.FormData.Destination != "Tokyo" || first.FormData.Interests[0] != "food" {
		t.Fatalf("turn 1 profile wrong: %+v", first.FormData)
	}

	second, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "I love vintage shopping too",
		FormData:  first.FormData,
	})
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if *second.FormData.Destination != "Tokyo" {
		t.Fatal("destination lost on turn 2")
	}
	// Last-write-wins: interests replaced, not unioned.
	if len(second.FormData.Interests) != 1 || second.FormData.Interests[0] != "vintage shopping" {
		t.Fatalf("interests should be overwritten, got %v", second.FormData.Interests)
	}
}

func TestMalformedPayloadPreservesProfile(t *testing.T) {
	prior := &models.TripProfile{Destination: strPtr("Tokyo")}

	for _, garbage := range []string{"complete nonsense", "{broken json", ""} {
		provider := &fakeProvider{responses: []string{garbage}}
		handler, _ := newTestHandler(t, provider)

		result, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
			SessionID: "s1",
			Message:   "tell me more",
			FormData:  prior,
		})
		if err != nil {
			t.Fatalf("fail-open path returned error: %v", err)
		}
		if result.Response != prompts.FallbackMessage {
			t.Fatalf("expected fallback message, got %q", result.Response)
		}
		if result.FormData != prior {
			t.Fatal("prior profile must be returned unmodified")
		}
		if result.TravelStage != nil || result.NextQuestion != nil || result.FunctionCall != nil {
			t.Fatal("degraded result must carry no stage, question, or suggestions")
		}
	}
}

func TestUpstreamErrorPreservesProfile(t *testing.T) {
	prior := &models.TripProfile{Destination: strPtr("Tokyo")}
	provider := &fakeProvider{err: errors.New("upstream unavailable")}
	handler, _ := newTestHandler(t, provider)

	result, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "hello?",
		FormData:  prior,
	})
	if err != nil {
		t.Fatalf("upstream failure must not surface: %v", err)
	}
	if result.Response == "" {
		t.Fatal("fallback response must be non-empty")
	}
	if result.FormData != prior {
		t.Fatal("prior profile must survive an upstream failure")
	}
}

func suggestionsPayload(t *testing.T, text string, n int) string {
	t.Helper()
	suggestions := make([]models.LocationSuggestion, n)
	for i := range suggestions {
		suggestions[i] = models.LocationSuggestion{
			Title:       fmt.Sprintf("Spot %d", i+1),
			Description: "A tiny family-run place",
			Address:     "1-2-3 Somewhere",
			Area:        "Shimokitazawa",
			Type:        "Coffee Shop",
			Coordinates: models.LatLng{35.66, 139.67},
		}
	}
	return marshalPayload(t, &models.GeneratorPayload{
		Response: text,
		FunctionCall: &models.FunctionCall{
			Type: "map",
			Data: &models.MapData{
				Coordinates: models.LatLng{35.66, 139.67},
				Description: "Hidden gems nearby",
				Suggestions: suggestions,
			},
		},
	})
}

func TestSuggestionBatchNumbering(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		suggestionsPayload(t, "first reveal", 6),
		suggestionsPayload(t, "second reveal", 6),
	}}
	handler, _ := newTestHandler(t, provider)

	first, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "show me hidden gems",
		FormData:  &models.TripProfile{},
	})
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	for _, s := range first.FunctionCall.Data.Suggestions {
		if s.Batch != 1 {
			t.Fatalf("turn 1 suggestions should be batch 1, got %d", s.Batch)
		}
	}
	if len(first.FormData.Suggestions) != 6 {
		t.Fatalf("expected 6 accumulated suggestions, got %d", len(first.FormData.Suggestions))
	}

	second, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "more please",
		FormData:  first.FormData,
	})
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	for _, s := range second.FunctionCall.Data.Suggestions {
		if s.Batch != 2 {
			t.Fatalf("turn 2 suggestions should be batch 2, got %d", s.Batch)
		}
	}
	if len(second.FormData.Suggestions) != 12 {
		t.Fatalf("expected 12 accumulated suggestions, got %d", len(second.FormData.Suggestions))
	}
}

func TestBatchOrdinalsAreSessionScoped(t *testing.T) {
	provider := &fakeProvider{responses: []string{suggestionsPayload(t, "reveal", 6)}}
	handler, _ := newTestHandler(t, provider)

	for _, session := range []string{"a", "b"} {
		result, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
			SessionID: session,
			Message:   "gems please",
			FormData:  &models.TripProfile{},
		})
		if err != nil {
			t.Fatalf("session %s: %v", session, err)
		}
		if result.FunctionCall.Data.Suggestions[0].Batch != 1 {
			t.Fatalf("session %s should start at batch 1", session)
		}
	}
}

func TestStageClampedByGuards(t *testing.T) {
	payload := marshalPayload(t, &models.GeneratorPayload{
		Response: "Jumping ahead!",
		TravelStage: &models.StageState{
			Current:      6,
			Name:         "Safety & Contingency",
			Progress:     0.1,
			Requirements: []string{"Purchase travel insurance"},
		},
		FormData: &models.TripProfile{
			Interests:   []string{"food"},
			Destination: strPtr("Tokyo"),
		},
	})
	provider := &fakeProvider{responses: []string{payload}}
	handler, _ := newTestHandler(t, provider)

	result, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "plan everything now",
		FormData:  &models.TripProfile{},
	})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	// Guards allow 2 (interests) and 3 (destination) but not 4 (no transport).
	if result.TravelStage.Current != 3 {
		t.Fatalf("expected clamp to stage 3, got %d", result.TravelStage.Current)
	}
	if result.TravelStage.Name != "Transportation & Logistics" {
		t.Fatalf("clamped stage should be re-described, got %q", result.TravelStage.Name)
	}
	if result.FormData.TripStage == nil || *result.FormData.TripStage != 3 {
		t.Fatal("merged profile should record the clamped stage")
	}
}

func TestOutOfRangeProfileStageClamped(t *testing.T) {
	payload := marshalPayload(t, &models.GeneratorPayload{
		Response: "Back to planning.",
		TravelStage: &models.StageState{
			Current:  2,
			Name:     "Destination Planning",
			Progress: 0.3,
		},
	})
	provider := &fakeProvider{responses: []string{payload}}
	handler, _ := newTestHandler(t, provider)

	bogus := 99
	result, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "where were we?",
		FormData:  &models.TripProfile{TripStage: &bogus},
	})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	// A client-supplied stage beyond the table must never echo back.
	if result.TravelStage.Current < 1 || result.TravelStage.Current > 6 {
		t.Fatalf("stage out of range: %d", result.TravelStage.Current)
	}
	if result.TravelStage.Current != 6 {
		t.Fatalf("expected clamp to stage 6, got %d", result.TravelStage.Current)
	}
	if result.TravelStage.Name != "Safety & Contingency" {
		t.Fatalf("clamped stage should be re-described, got %q", result.TravelStage.Name)
	}
	if result.FormData.TripStage == nil || *result.FormData.TripStage != 6 {
		t.Fatal("merged profile should record the clamped stage")
	}
}

func TestProgressClamped(t *testing.T) {
	payload := marshalPayload(t, &models.GeneratorPayload{
		Response: "ok",
		TravelStage: &models.StageState{
			Current:  1,
			Name:     "Personal Style & Goals",
			Progress: 3.5,
		},
	})
	provider := &fakeProvider{responses: []string{payload}}
	handler, _ := newTestHandler(t, provider)

	result, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "hi",
	})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.TravelStage.Progress != 1 {
		t.Fatalf("progress should clamp to 1, got %v", result.TravelStage.Progress)
	}
}

func TestHistoryRecordedBothSides(t *testing.T) {
	payload := marshalPayload(t, &models.GeneratorPayload{Response: "Let me reveal a hidden gem..."})
	provider := &fakeProvider{responses: []string{payload}}
	handler, mem := newTestHandler(t, provider)

	_, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s1",
		Message:   "surprise me",
	})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	turns, err := mem.Turns(context.Background(), "s1")
	if err != nil {
		t.Fatalf("history load failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns in history, got %d", len(turns))
	}
	if turns[0].Role != models.RoleUser || turns[0].Content != "surprise me" {
		t.Fatalf("user turn wrong: %+v", turns[0])
	}
	if turns[1].Role != models.RoleAssistant || turns[1].Content != "Let me reveal a hidden gem..." {
		t.Fatalf("assistant turn wrong: %+v", turns[1])
	}
}

func TestPersonaSelectionByAuth(t *testing.T) {
	payload := marshalPayload(t, &models.GeneratorPayload{Response: "ok"})
	provider := &fakeProvider{responses: []string{payload}}
	handler, _ := newTestHandler(t, provider)

	_, err := handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID:     "s1",
		Message:       "hello",
		Authenticated: true,
	})
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if provider.lastReq.SystemPrompt != prompts.PersonaPrompt(true) {
		t.Fatal("authenticated request should use the full persona")
	}

	_, err = handler.ProcessTurn(context.Background(), &models.TurnRequest{
		SessionID: "s2",
		Message:   "hello",
	})
	if err != nil {
		t.Fatalf("guest turn failed: %v", err)
	}
	if provider.lastReq.SystemPrompt != prompts.PersonaPrompt(false) {
		t.Fatal("anonymous request should use the guest persona")
	}
}
