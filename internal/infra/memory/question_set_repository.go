package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// QuestionSetLoader fetches a question set from its source (remote document, Postgres).
type QuestionSetLoader interface {
	LoadQuestionSet(ctx context.Context, source string) (domain.QuestionSet, error)
}

// QuestionSetRepository caches question sets with TTL so a restart reuses the
// set already in memory. Failed loads are never cached; the next call retries.
type QuestionSetRepository struct {
	loader QuestionSetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

func NewQuestionSetRepository(loader QuestionSetLoader, ttl time.Duration) *QuestionSetRepository {
	return &QuestionSetRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionSetRepository) GetQuestionSet(ctx context.Context, source string) (domain.QuestionSet, error) {
	if set, ok := r.cached(source); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		if set, ok := r.cached(source); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestionSet(ctx, source)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		if r.ttl > 0 {
			r.mu.Lock()
			r.cache[source] = cachedSet{
				set:       set,
				expiresAt: r.clock().Add(r.ttlWithJitter()),
			}
			r.mu.Unlock()
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// Invalidate drops a cached set so the next call reloads it.
func (r *QuestionSetRepository) Invalidate(source string) {
	r.mu.Lock()
	delete(r.cache, source)
	r.mu.Unlock()
}

func (r *QuestionSetRepository) cached(source string) (domain.QuestionSet, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[source]; ok && entry.expiresAt.After(now) {
		return entry.set, true
	}
	return domain.QuestionSet{}, false
}

func (r *QuestionSetRepository) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticLoader struct {
	sets map[string]domain.QuestionSet
}

func NewStaticLoader(sets map[string]domain.QuestionSet) *StaticLoader {
	return &StaticLoader{sets: sets}
}

func (l *StaticLoader) LoadQuestionSet(_ context.Context, source string) (domain.QuestionSet, error) {
	if set, ok := l.sets[source]; ok {
		return set, nil
	}
	return domain.QuestionSet{}, &domain.LoadError{Source: source, Cause: domain.ErrQuestionSetNotFound}
}
