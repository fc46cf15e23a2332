package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesQuizCollectors(t *testing.T) {
	SessionsOpened.Inc()
	QuestionOutcomes.WithLabelValues(OutcomeTimeout).Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"quiz_sessions_opened_total", `quiz_question_outcomes_total{outcome="timeout"}`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %s in metrics output", want)
		}
	}
}
