package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vocab-quiz-service/internal/domain"
)

const doc = `{"status":"SUCCESS","data":{"testId":"t-1","questions":[{"questionId":"q1","question":"A _____________ day.","questionType":"text","answerType":"options","options":["sunny","rainy"],"correctAnswer":["sunny"]}]},"message":"ok","activity":{"id":"a","userId":"u","type":"debit","coinType":"gold","coins":3,"description":"d","createdAt":"2025-01-01T00:00:00Z"}}`

func TestLoaderFetchesDocument(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	defer server.Close()

	loader := NewLoader(map[string]string{"default": server.URL}, time.Second)
	set, err := loader.LoadQuestionSet(context.Background(), "default")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.ID != "t-1" || len(set.Questions) != 1 || set.Activity.Coins != 3 {
		t.Fatalf("unexpected set %+v", set)
	}
	if calls != 1 {
		t.Fatalf("expected one request, got %d", calls)
	}
}

func TestLoaderNon2xxIsLoadError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	loader := NewLoader(map[string]string{"default": server.URL}, time.Second)
	_, err := loader.LoadQuestionSet(context.Background(), "default")
	var loadErr *domain.LoadError
	if !errors.As(err, &loadErr) || loadErr.Source != "default" {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no automatic retry, got %d requests", calls)
	}
}

func TestLoaderUnsuccessfulStatusIsLoadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","data":{"testId":"t","questions":[]},"message":"nope"}`))
	}))
	defer server.Close()

	loader := NewLoader(map[string]string{"default": server.URL}, time.Second)
	_, err := loader.LoadQuestionSet(context.Background(), "default")
	var loadErr *domain.LoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, domain.ErrUnsuccessfulStatus) {
		t.Fatalf("expected LoadError wrapping ErrUnsuccessfulStatus, got %v", err)
	}
}

func TestLoaderMalformedJSONIsLoadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":`))
	}))
	defer server.Close()

	loader := NewLoader(map[string]string{"default": server.URL}, time.Second)
	_, err := loader.LoadQuestionSet(context.Background(), "default")
	var loadErr *domain.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoaderUnknownSource(t *testing.T) {
	loader := NewLoader(map[string]string{}, time.Second)
	_, err := loader.LoadQuestionSet(context.Background(), "nope")
	if !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected ErrQuestionSetNotFound, got %v", err)
	}
}
