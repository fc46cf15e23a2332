package cli

import (
	"context"
	"time"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/infra/memory"
	pgloader "vocab-quiz-service/internal/infra/postgres"
	redisstore "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/infra/remote"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// stack is the wired quiz service plus the connections it owns.
type stack struct {
	service *app.QuizService
	closers []func()
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildStack picks the question-set source (Postgres when configured,
// otherwise the remote documents), the cache, and the session store.
func buildStack(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stack, error) {
	st := &stack{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st.closers = append(st.closers, func() { _ = redisClient.Close() })
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var loader memory.QuestionSetLoader = remote.NewLoader(cfg.SourceURLs(), config.TTLDuration(cfg.HTTP.Timeout, 15*time.Second))
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, pool.Close)
		loader = pgloader.NewQuestionSetLoader(pool)
		logger.Info("serving imported question sets from postgres")
	}

	setTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var sets app.QuestionSetRepository
	if redisClient != nil {
		sets = redisstore.NewQuestionSetRepository(redisClient, loader, setTTL)
	} else {
		sets = memory.NewQuestionSetRepository(loader, setTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	st.service = app.NewQuizService(store, sets, sessionSettings(cfg), logger)
	return st, nil
}

func sessionSettings(cfg config.Config) app.Settings {
	policy := app.DiscardPartial
	if cfg.Quiz.TimeoutPolicy == config.TimeoutKeepPartial {
		policy = app.KeepPartial
	}
	return app.Settings{
		BudgetSeconds: cfg.Quiz.BudgetSeconds,
		TickInterval:  config.TTLDuration(cfg.Quiz.TickInterval, time.Second),
		TimeoutPolicy: policy,
	}
}
