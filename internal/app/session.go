package app

import (
	"fmt"
	"sync"
	"time"

	"vocab-quiz-service/internal/collector"
	"vocab-quiz-service/internal/countdown"
	"vocab-quiz-service/internal/document"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/metrics"
	"vocab-quiz-service/internal/scoring"
	"vocab-quiz-service/internal/sentence"

	"go.uber.org/zap"
)

// TimeoutPolicy decides what is recorded when a question runs out of time.
type TimeoutPolicy string

const (
	// KeepPartial records whatever was placed, with empty strings for unfilled blanks.
	KeepPartial TimeoutPolicy = "keep_partial"
	// DiscardPartial records an empty string for every blank. It is the default.
	DiscardPartial TimeoutPolicy = "discard"
)

// Settings tunes every session created by a service.
type Settings struct {
	BudgetSeconds int
	TickInterval  time.Duration
	TimeoutPolicy TimeoutPolicy
	// NewTicker overrides the countdown tick source; nil uses time.Ticker.
	NewTicker func(time.Duration) countdown.Ticker
}

func (s Settings) withDefaults() Settings {
	if s.BudgetSeconds <= 0 {
		s.BudgetSeconds = 30
	}
	if s.TickInterval <= 0 {
		s.TickInterval = time.Second
	}
	if s.TimeoutPolicy == "" {
		s.TimeoutPolicy = DiscardPartial
	}
	return s
}

// Session is one player's run through a question set. All transitions happen
// under mu; the countdown's tick and expiry callbacks enter through the same
// lock, so a submit and an expiry can never both apply to one question.
type Session struct {
	id       string
	source   string
	set      domain.QuestionSet
	settings Settings
	now      func() time.Time
	logger   *zap.Logger
	timer    *countdown.Timer

	mu          sync.Mutex
	mode        domain.SessionMode
	index       int
	log         []domain.AnswerRecord
	answers     *collector.Collector
	segments    []string
	lifecycle   uint64
	closed      bool
	subscribers map[chan domain.SessionSnapshot]struct{}
}

// NewSession builds a session in NotStarted mode.
func NewSession(id, source string, set domain.QuestionSet, settings Settings, logger *zap.Logger) *Session {
	return newSessionWithClock(id, source, set, settings, logger, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id, source string, set domain.QuestionSet, settings Settings, logger *zap.Logger, now func() time.Time) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		id:          id,
		source:      source,
		set:         set,
		settings:    settings.withDefaults(),
		now:         now,
		logger:      logger.With(zap.String("session", id)),
		mode:        domain.ModeNotStarted,
		subscribers: make(map[chan domain.SessionSnapshot]struct{}),
	}
	opts := []countdown.Option{
		countdown.WithInterval(s.settings.TickInterval),
		countdown.WithTickHandler(s.onTick),
		countdown.WithExpiryHandler(s.onExpire),
	}
	if s.settings.NewTicker != nil {
		opts = append(opts, countdown.WithTicker(s.settings.NewTicker))
	}
	s.timer = countdown.New(opts...)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Start moves NotStarted to Presenting(0).
func (s *Session) Start() (domain.SessionSnapshot, error) {
	return s.begin(domain.ModeNotStarted)
}

// Restart moves Finished to Presenting(0) with an empty answer log.
func (s *Session) Restart() (domain.SessionSnapshot, error) {
	return s.begin(domain.ModeFinished)
}

// Place puts option into the leftmost empty blank of the current question.
// ErrAlreadyUsed and ErrNoEmptySlot leave the assignment unchanged.
func (s *Session) Place(option string) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePresentingLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	if _, err := s.answers.Place(option); err != nil {
		return s.snapshotLocked(), err
	}
	return s.broadcastLocked(), nil
}

// Remove clears a blank of the current question.
func (s *Session) Remove(blank int) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePresentingLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	if err := s.answers.Remove(blank); err != nil {
		return s.snapshotLocked(), err
	}
	return s.broadcastLocked(), nil
}

// Submit scores the filled-in blanks and advances to the next question or
// the summary.
func (s *Session) Submit() (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePresentingLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	if !s.answers.IsComplete() {
		return s.snapshotLocked(), domain.ErrIncompleteAnswer
	}
	if err := s.advanceLocked(s.answers.Answers(), false); err != nil {
		return s.snapshotLocked(), err
	}
	return s.broadcastLocked(), nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// AnswerLog returns a copy of the records so far.
func (s *Session) AnswerLog() []domain.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AnswerRecord, len(s.log))
	copy(out, s.log)
	return out
}

// Subscribe returns a channel of snapshots, primed with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	s.mu.Lock()
	initial := s.snapshotLocked()
	if s.closed {
		s.mu.Unlock()
		ch <- initial
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// the buffer is empty, so this send cannot block while holding mu
	ch <- initial
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the countdown and releases subscribers. It reports whether
// this call closed the session; later calls are no-ops returning false.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	s.timer.Stop()
	s.lifecycle = 0
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	return true
}

func (s *Session) begin(from domain.SessionMode) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.snapshotLocked(), domain.ErrSessionNotFound
	}
	if s.mode != from {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	if err := document.CheckShape(s.set); err != nil {
		return s.snapshotLocked(), err
	}

	s.log = nil
	if len(s.set.Questions) == 0 {
		s.finishLocked()
	} else {
		s.presentLocked(0)
	}
	return s.broadcastLocked(), nil
}

func (s *Session) requirePresentingLocked() error {
	if s.closed {
		return domain.ErrSessionNotFound
	}
	if s.mode != domain.ModePresenting {
		return domain.ErrInvalidTransition
	}
	return nil
}

// presentLocked makes question i current. The previous countdown is stopped
// before the new one starts.
func (s *Session) presentLocked(i int) {
	s.timer.Stop()
	q := s.set.Questions[i]
	s.mode = domain.ModePresenting
	s.index = i
	s.segments = sentence.Split(q.Template)
	s.answers = collector.New(len(q.CorrectAnswer), q.Options)
	s.lifecycle = s.timer.Start(s.settings.BudgetSeconds)
}

func (s *Session) advanceLocked(answers []string, timedOut bool) error {
	s.timer.Stop()
	s.lifecycle = 0

	q := s.set.Questions[s.index]
	verdict, err := scoring.Evaluate(answers, q.CorrectAnswer)
	if err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	s.log = append(s.log, domain.AnswerRecord{
		QuestionID:     q.ID,
		UserAnswers:    answers,
		CorrectAnswers: append([]string(nil), q.CorrectAnswer...),
		Correct:        verdict,
		TimedOut:       timedOut,
	})

	switch {
	case timedOut:
		metrics.QuestionOutcomes.WithLabelValues(metrics.OutcomeTimeout).Inc()
	case verdict:
		metrics.QuestionOutcomes.WithLabelValues(metrics.OutcomeCorrect).Inc()
	default:
		metrics.QuestionOutcomes.WithLabelValues(metrics.OutcomeIncorrect).Inc()
	}

	if next := s.index + 1; next < len(s.set.Questions) {
		s.presentLocked(next)
		return nil
	}
	s.finishLocked()
	return nil
}

func (s *Session) finishLocked() {
	s.timer.Stop()
	s.mode = domain.ModeFinished
	s.index = 0
	s.answers = nil
	s.segments = nil
	s.lifecycle = 0

	tally := scoring.Tally(s.log)
	metrics.SessionsFinished.Inc()
	metrics.SessionScore.Observe(float64(tally.Percentage))
	s.logger.Info("session finished",
		zap.String("set", s.set.ID),
		zap.Int("correct", tally.CorrectCount),
		zap.Int("total", tally.TotalCount),
		zap.Int("percentage", tally.Percentage),
	)
}

func (s *Session) onTick(lifecycle uint64, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || lifecycle != s.lifecycle {
		return
	}
	s.broadcastLocked()
}

// onExpire is the only transition driven by the countdown. A stale or
// duplicate notification no longer matches the current lifecycle.
func (s *Session) onExpire(lifecycle uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.mode != domain.ModePresenting || lifecycle != s.lifecycle {
		return
	}

	answers := s.answers.Answers()
	if s.settings.TimeoutPolicy != KeepPartial {
		answers = make([]string, len(answers))
	}
	if err := s.advanceLocked(answers, true); err != nil {
		s.logger.Error("timeout scoring failed", zap.Error(err))
		return
	}
	s.broadcastLocked()
}

func (s *Session) broadcastLocked() domain.SessionSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot so a slow reader never blocks a transition
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		SessionID: s.id,
		SetID:     s.set.ID,
		Mode:      s.mode,
		Total:     len(s.set.Questions),
		Coins:     s.set.Activity.Coins,
		UpdatedAt: s.now(),
	}

	switch s.mode {
	case domain.ModePresenting:
		q := s.set.Questions[s.index]
		remaining := s.timer.Remaining()
		view := &domain.QuestionView{
			Index:      s.index,
			Number:     s.index + 1,
			QuestionID: q.ID,
			Segments:   append([]string(nil), s.segments...),
			Slots:      s.answers.Answers(),
			Options:    make([]domain.OptionView, 0, len(q.Options)),
			Complete:   s.answers.IsComplete(),
			Remaining:  remaining,
			Budget:     s.settings.BudgetSeconds,
			Band:       scoring.Band(remaining),
			Progress:   scoring.Percentage(s.index, len(s.set.Questions)),
		}
		for _, opt := range q.Options {
			view.Options = append(view.Options, domain.OptionView{Text: opt, Used: s.answers.Used(opt)})
		}
		snap.Current = view
	case domain.ModeFinished:
		summary := scoring.Summarize(s.set.Questions, s.log)
		snap.Summary = &summary
	}
	return snap
}
