package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options tunes the WebSocket endpoint.
type Options struct {
	DefaultSource     string
	MessagesPerSecond float64
	Burst             int
}

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	opts     Options
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger, opts Options) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MessagesPerSecond <= 0 {
		opts.MessagesPerSecond = 20
	}
	if opts.Burst <= 0 {
		opts.Burst = 40
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type placePayload struct {
	Option string `json:"option"`
}

type removePayload struct {
	Blank int `json:"blank"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz session per
// connection. Every state change, including countdown ticks, is pushed as a
// "state" frame; the session is closed when the connection ends.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = h.opts.DefaultSource
	}
	if source == "" {
		http.Error(w, "missing source", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var forwarders sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	var (
		sessionID   string
		unsubscribe func()
	)
	open := func() {
		snap, err := h.service.Open(ctx, source)
		if err != nil {
			emit(errorMessage(err))
			return
		}
		updates, cancel, err := h.service.Subscribe(ctx, snap.SessionID)
		if err != nil {
			emit(errorMessage(err))
			h.service.Close(ctx, snap.SessionID)
			return
		}
		sessionID = snap.SessionID
		unsubscribe = cancel

		forwarders.Add(1)
		go func() {
			defer forwarders.Done()
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- outboundMessage[any]{Type: "state", Payload: update}:
					case <-closeSignals:
						return
					case <-writerDone:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
	}

	open()

	limiter := rate.NewLimiter(rate.Limit(h.opts.MessagesPerSecond), h.opts.Burst)
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if !limiter.Allow() {
			emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "rate_limited", Message: "too many messages"}})
			continue
		}
		if inbound.Type == "reload" {
			if sessionID == "" {
				open()
			}
			continue
		}
		if sessionID == "" {
			emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "not_loaded", Message: "questions not loaded; send reload"}})
			continue
		}
		if err := h.dispatch(ctx, sessionID, inbound); err != nil {
			emit(errorMessage(err))
		}
	}

	close(closeSignals)
	if unsubscribe != nil {
		unsubscribe()
	}
	forwarders.Wait()
	if sessionID != "" {
		h.service.Close(context.Background(), sessionID)
	}
	close(send)
	<-writerDone
}

// dispatch applies one inbound command. Successful transitions reach the
// client through the session subscription; a rejected placement leaves the
// state untouched and is only reported.
func (h *WSHandler) dispatch(ctx context.Context, sessionID string, inbound inboundMessage) error {
	var err error
	switch inbound.Type {
	case "start":
		_, err = h.service.Start(ctx, sessionID)
	case "place":
		var payload placePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errBadPayload
		}
		_, err = h.service.Place(ctx, sessionID, payload.Option)
	case "remove":
		var payload removePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errBadPayload
		}
		_, err = h.service.Remove(ctx, sessionID, payload.Blank)
	case "submit":
		_, err = h.service.Submit(ctx, sessionID)
	case "restart":
		_, err = h.service.Restart(ctx, sessionID)
	default:
		return errUnsupported
	}
	return err
}

var (
	errBadPayload  = errors.New("invalid payload")
	errUnsupported = errors.New("unsupported message type")
)

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}}
}

func errorCode(err error) string {
	var loadErr *domain.LoadError
	switch {
	case errors.As(err, &loadErr):
		return "load_failed"
	case errors.Is(err, domain.ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, domain.ErrNoEmptySlot):
		return "no_empty_slot"
	case errors.Is(err, domain.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrIncompleteAnswer):
		return "incomplete"
	case errors.Is(err, domain.ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, domain.ErrBlankOutOfRange):
		return "blank_out_of_range"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, errBadPayload):
		return "bad_payload"
	case errors.Is(err, errUnsupported):
		return "unsupported"
	default:
		return "internal"
	}
}
