package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"millionaire-quiz-service/internal/domain"
)

// QuestionLoader fetches questions for a scope from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, scope domain.Scope) ([]domain.Question, error)
}

// QuestionRepository caches question sequences per scope with TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

func (r *QuestionRepository) Questions(ctx context.Context, scope domain.Scope) ([]domain.Question, error) {
	key := scope.Key()
	if questions, ok := r.cached(key, r.clock()); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		if questions, ok := r.cached(key, now); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, scope)
		if err != nil {
			return nil, err
		}

		// An empty scope is not cached so new content shows up immediately.
		if len(questions) > 0 && r.ttl > 0 {
			r.mu.Lock()
			r.cache[key] = cachedQuestions{
				questions: questions,
				expiresAt: now.Add(r.ttlWithJitter()),
			}
			r.mu.Unlock()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneQuestions(result.([]domain.Question)), nil
}

func (r *QuestionRepository) cached(key string, now time.Time) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		return cloneQuestions(entry.questions), true
	}
	return nil, false
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// cloneQuestions copies the slice so callers cannot mutate cached entries.
func cloneQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Answers = append([]domain.Answer(nil), q.Answers...)
		out[i] = q
	}
	return out
}

// StaticQuestionLoader is a simple loader backed by in-memory categories (useful for tests/demos).
type StaticQuestionLoader struct {
	categories map[int64]domain.Category
	questions  []domain.Question
}

func NewStaticQuestionLoader(categories []domain.Category, questions []domain.Question) *StaticQuestionLoader {
	byID := make(map[int64]domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	sorted := cloneQuestions(questions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for i := range sorted {
		if c, ok := byID[sorted[i].CategoryID]; ok {
			sorted[i].Category = c.Name
		}
	}
	return &StaticQuestionLoader{categories: byID, questions: sorted}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, scope domain.Scope) ([]domain.Question, error) {
	wanted := make(map[int64]bool)
	if scope.Explicit() {
		for _, id := range scope.CategoryIDs {
			if _, ok := l.categories[id]; ok {
				wanted[id] = true
			}
		}
	} else {
		for id, c := range l.categories {
			if c.Enabled {
				wanted[id] = true
			}
		}
	}

	out := make([]domain.Question, 0, len(l.questions))
	for _, q := range l.questions {
		if wanted[q.CategoryID] {
			out = append(out, q)
		}
	}
	return cloneQuestions(out), nil
}
