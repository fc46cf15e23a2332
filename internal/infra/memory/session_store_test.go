package memory

import (
	"testing"

	"vocab-quiz-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := app.NewSession("s-1", "default", sampleSet(), app.Settings{}, nil)
	store.Put(session)
	if got, ok := store.Get("s-1"); !ok || got != session {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one session, got %d", store.Len())
	}

	store.Delete("s-1")
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}
