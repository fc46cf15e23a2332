package redis

import (
	"testing"
	"time"

	"vocab-quiz-service/internal/app"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	store.Put(app.NewSession("s-1", "default", sampleSet(), app.Settings{}, nil))
	if !mr.Exists("quiz:session:s-1") {
		t.Fatalf("expected redis key to be set")
	}
	if _, ok := store.Get("s-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("s-1")
	if mr.Exists("quiz:session:s-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}
