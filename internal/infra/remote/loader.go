package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"vocab-quiz-service/internal/document"
	"vocab-quiz-service/internal/domain"
)

// maxDocumentBytes bounds how much of a response body is read.
const maxDocumentBytes = 4 << 20

// Loader fetches question-set documents with a single HTTP GET per call.
// There is no retry; callers re-invoke LoadQuestionSet on user request.
type Loader struct {
	client  *http.Client
	sources map[string]string
}

// NewLoader maps source ids to document URLs.
func NewLoader(sources map[string]string, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Loader{
		client:  &http.Client{Timeout: timeout},
		sources: sources,
	}
}

// LoadQuestionSet downloads and decodes the document for source. Every
// failure is a *domain.LoadError.
func (l *Loader) LoadQuestionSet(ctx context.Context, source string) (domain.QuestionSet, error) {
	url, ok := l.sources[source]
	if !ok {
		return domain.QuestionSet{}, &domain.LoadError{Source: source, Cause: domain.ErrQuestionSetNotFound}
	}
	set, err := l.fetch(ctx, url)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Source: source, Cause: err}
	}
	return set, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (domain.QuestionSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.QuestionSet{}, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("read response: %w", err)
	}
	return document.Decode(raw)
}
