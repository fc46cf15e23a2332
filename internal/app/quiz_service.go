package app

import (
	"context"
	"errors"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionSetRepository loads question sets (from cache/backing store).
type QuestionSetRepository interface {
	GetQuestionSet(ctx context.Context, source string) (domain.QuestionSet, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions SessionRepository
	sets     QuestionSetRepository
	settings Settings
	logger   *zap.Logger
	newID    func() string
}

func NewQuizService(store SessionRepository, sets QuestionSetRepository, settings Settings, logger *zap.Logger) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		sessions: store,
		sets:     sets,
		settings: settings.withDefaults(),
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Overview loads the question set behind source and describes it for the
// start screen. A failed load is returned as-is so the caller can offer a retry.
func (s *QuizService) Overview(ctx context.Context, source string) (domain.Overview, error) {
	set, err := s.load(ctx, source)
	if err != nil {
		return domain.Overview{}, err
	}
	return domain.Overview{
		SourceID:       source,
		SetID:          set.ID,
		TotalQuestions: len(set.Questions),
		Coins:          set.Activity.Coins,
		BudgetSeconds:  s.settings.BudgetSeconds,
	}, nil
}

// Open creates a NotStarted session over the question set behind source.
func (s *QuizService) Open(ctx context.Context, source string) (domain.SessionSnapshot, error) {
	set, err := s.load(ctx, source)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	session := NewSession(s.newID(), source, set, s.settings, s.logger)
	s.sessions.Put(session)
	metrics.SessionsOpened.Inc()
	metrics.ActiveSessions.Inc()
	s.logger.Info("session opened",
		zap.String("session", session.ID()),
		zap.String("source", source),
		zap.String("set", set.ID),
		zap.Int("questions", len(set.Questions)),
	)
	return session.Snapshot(), nil
}

// Start begins the quiz.
func (s *QuizService) Start(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	snap, err := session.Start()
	s.logTransitionError("start", sessionID, err)
	return snap, err
}

// Place puts an option into the current question's leftmost empty blank.
func (s *QuizService) Place(_ context.Context, sessionID, option string) (domain.SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Place(option)
}

// Remove clears a blank of the current question.
func (s *QuizService) Remove(_ context.Context, sessionID string, blank int) (domain.SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Remove(blank)
}

// Submit scores the current question and advances.
func (s *QuizService) Submit(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	snap, err := session.Submit()
	s.logTransitionError("submit", sessionID, err)
	return snap, err
}

// Restart runs the same question set again from a finished session.
func (s *QuizService) Restart(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	snap, err := session.Restart()
	s.logTransitionError("restart", sessionID, err)
	return snap, err
}

// Snapshot returns the current state of a session.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives snapshots for a session, one per
// transition and one per countdown tick.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionSnapshot, func(), error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Close stops the session's countdown and forgets the session.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.sessions.Delete(sessionID)
	if !session.Close() {
		return
	}
	metrics.ActiveSessions.Dec()
	s.logger.Info("session closed", zap.String("session", sessionID))
}

func (s *QuizService) session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *QuizService) load(ctx context.Context, source string) (domain.QuestionSet, error) {
	set, err := s.sets.GetQuestionSet(ctx, source)
	if err != nil {
		metrics.LoadFailures.WithLabelValues(source).Inc()
		s.logger.Warn("question set load failed", zap.String("source", source), zap.Error(err))
		return domain.QuestionSet{}, err
	}
	return set, nil
}

func (s *QuizService) logTransitionError(op, sessionID string, err error) {
	if err == nil || errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrIncompleteAnswer) {
		return
	}
	s.logger.Error("session transition failed",
		zap.String("op", op),
		zap.String("session", sessionID),
		zap.Error(err),
	)
}
