// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector served at /metrics.
var Registry = prometheus.NewRegistry()

var (
	SessionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_sessions_opened_total",
		Help: "Total number of quiz sessions opened",
	})

	SessionsFinished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_sessions_finished_total",
		Help: "Total number of quiz sessions that reached the summary",
	})

	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quiz_sessions_active",
		Help: "Number of quiz sessions currently open",
	})

	QuestionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_question_outcomes_total",
			Help: "Answered questions by outcome",
		},
		[]string{"outcome"},
	)

	LoadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_question_set_load_failures_total",
			Help: "Failed question-set loads by source",
		},
		[]string{"source"},
	)

	SessionScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_session_score_percentage",
		Help:    "Final percentage of finished sessions",
		Buckets: []float64{0, 20, 40, 60, 75, 90, 100},
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		SessionsOpened,
		SessionsFinished,
		ActiveSessions,
		QuestionOutcomes,
		LoadFailures,
		SessionScore,
	)
}

// Outcome labels for QuestionOutcomes.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeTimeout   = "timeout"
)

// Handler exposes the registry over HTTP.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
