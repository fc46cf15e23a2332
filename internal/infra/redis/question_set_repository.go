package redis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"vocab-quiz-service/internal/document"
	"vocab-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionSetLoader fetches a question set from its source (remote document, Postgres).
type QuestionSetLoader interface {
	LoadQuestionSet(ctx context.Context, source string) (domain.QuestionSet, error)
}

// QuestionSetRepository caches question sets in Redis and falls back to a loader on cache miss.
// Sets are stored in their document form: SET questionset:{source} <json> EX ttl
type QuestionSetRepository struct {
	client *redis.Client
	loader QuestionSetLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuestionSetRepository(client *redis.Client, loader QuestionSetLoader, ttl time.Duration) *QuestionSetRepository {
	return &QuestionSetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionSetRepository) GetQuestionSet(ctx context.Context, source string) (domain.QuestionSet, error) {
	if set, ok := r.cached(ctx, source); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cached(ctx, source); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestionSet(ctx, source)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		if r.ttl <= 0 {
			return set, nil
		}
		if raw, err := document.Encode(set); err == nil {
			_ = r.client.Set(ctx, r.key(source), raw, r.ttlWithJitter()).Err()
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// Invalidate drops the cached document for source.
func (r *QuestionSetRepository) Invalidate(ctx context.Context, source string) error {
	return r.client.Del(ctx, r.key(source)).Err()
}

func (r *QuestionSetRepository) cached(ctx context.Context, source string) (domain.QuestionSet, bool) {
	raw, err := r.client.Get(ctx, r.key(source)).Bytes()
	if err != nil {
		return domain.QuestionSet{}, false
	}
	set, err := document.Decode(raw)
	if err != nil {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (r *QuestionSetRepository) key(source string) string {
	return "questionset:" + source
}

func (r *QuestionSetRepository) ttlWithJitter() time.Duration {
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
