package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/metrics"

	"go.uber.org/zap"
)

// NewRouter wires every HTTP route the service exposes.
func NewRouter(service *app.QuizService, logger *zap.Logger, opts Options) *http.ServeMux {
	wsHandler := NewWSHandler(service, logger, opts)
	overview := &overviewHandler{service: service}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("GET /api/sources/{id}", overview.ServeHTTP)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

type overviewHandler struct {
	service *app.QuizService
}

// ServeHTTP returns the start-screen overview for a source. A failed load is
// reported with 502 so the client can show its retry affordance; calling
// again is the retry.
func (h *overviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			status = http.StatusBadGateway
			if errors.Is(err, domain.ErrQuestionSetNotFound) {
				status = http.StatusNotFound
			}
		}
		writeJSON(w, status, map[string]any{"error": err.Error(), "retryable": status == http.StatusBadGateway})
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
