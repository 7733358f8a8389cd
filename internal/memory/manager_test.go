package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hiddengem/nova-travel/internal/models"
)

func TestManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewLocalStore(time.Hour))

	if err := mgr.SaveUserMessage(ctx, "s1", "u1", "hello"); err != nil {
		t.Fatalf("save user message: %v", err)
	}
	if err := mgr.SaveAssistantMessage(ctx, "s1", "u1", "hi there"); err != nil {
		t.Fatalf("save assistant message: %v", err)
	}

	turns, err := mgr.Turns(ctx, "s1")
	if err != nil {
		t.Fatalf("turns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != models.RoleUser || turns[1].Role != models.RoleAssistant {
		t.Fatalf("role order wrong: %+v", turns)
	}
}

func TestManagerRehydratesFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(time.Hour)

	first := NewManager(store)
	if err := first.SaveUserMessage(ctx, "s1", "u1", "remember me"); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A fresh manager over the same store must see the history.
	second := NewManager(store)
	turns, err := second.Turns(ctx, "s1")
	if err != nil {
		t.Fatalf("turns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "remember me" {
		t.Fatalf("history not rehydrated: %+v", turns)
	}
}

func TestSuggestionCounting(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewLocalStore(time.Hour))

	count, err := mgr.SuggestionCount(ctx, "s1")
	if err != nil || count != 0 {
		t.Fatalf("fresh session should have 0 suggestions, got %d (%v)", count, err)
	}

	total, err := mgr.AddSuggestions(ctx, "s1", 6)
	if err != nil || total != 6 {
		t.Fatalf("expected total 6, got %d (%v)", total, err)
	}
	total, err = mgr.AddSuggestions(ctx, "s1", 6)
	if err != nil || total != 12 {
		t.Fatalf("expected total 12, got %d (%v)", total, err)
	}

	// Counts are session-scoped.
	other, err := mgr.SuggestionCount(ctx, "s2")
	if err != nil || other != 0 {
		t.Fatalf("other session should be unaffected, got %d (%v)", other, err)
	}
}

func TestClearSessionEvictsCacheAndStore(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(NewLocalStore(time.Hour))

	if err := mgr.SaveUserMessage(ctx, "s1", "u1", "hello"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if mgr.ActiveSessionCount() != 1 {
		t.Fatalf("expected 1 cached session, got %d", mgr.ActiveSessionCount())
	}

	if err := mgr.ClearSession(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mgr.ActiveSessionCount() != 0 {
		t.Fatal("cache should be evicted")
	}
	exists, err := mgr.SessionExists(ctx, "s1")
	if err != nil || exists {
		t.Fatalf("store entry should be gone, exists=%v err=%v", exists, err)
	}
}

func TestLocalStoreTTLEviction(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(10 * time.Millisecond)

	msg := Message{Role: models.RoleUser, Content: "ephemeral", Timestamp: time.Now()}
	if err := store.SaveMessage(ctx, "s1", "u1", msg); err != nil {
		t.Fatalf("save: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	exists, err := store.SessionExists(ctx, "s1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expired session should be evicted")
	}
	session, err := store.LoadSession(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(session.Messages) != 0 {
		t.Fatal("expired session should load empty")
	}
	count, err := store.SuggestionCount(ctx, "s1")
	if err != nil || count != 0 {
		t.Fatalf("expired session should report 0 suggestions, got %d", count)
	}
}

func TestLocalStoreSessionsIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(time.Hour)

	_ = store.SaveMessage(ctx, "a", "u1", Message{Role: models.RoleUser, Content: "one", Timestamp: time.Now()})
	_ = store.SaveMessage(ctx, "b", "u2", Message{Role: models.RoleUser, Content: "two", Timestamp: time.Now()})

	aMsgs, _ := store.GetMessages(ctx, "a")
	bMsgs, _ := store.GetMessages(ctx, "b")
	if len(aMsgs) != 1 || len(bMsgs) != 1 {
		t.Fatalf("sessions should be isolated, got %d and %d", len(aMsgs), len(bMsgs))
	}
	if aMsgs[0].Content == bMsgs[0].Content {
		t.Fatal("sessions bleed into each other")
	}
}
