package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"millionaire-quiz-service/internal/domain"
	"millionaire-quiz-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(sampleCategories(), sampleQuestions()),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	questions, err := repo.Questions(context.Background(), domain.EnabledScope())
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("millionaire:questions:enabled") {
		t.Fatalf("expected snapshot cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.Questions(context.Background(), domain.EnabledScope())
	if err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != len(questions) || cached[0].Answers[0].Correct != questions[0].Answers[0].Correct {
		t.Fatalf("cached snapshot differs from loaded questions")
	}
	if cached[0].Category != "Science" {
		t.Fatalf("expected category name in snapshot, got %q", cached[0].Category)
	}

	mr.FastForward(2 * time.Minute)
	_, _ = repo.Questions(context.Background(), domain.EnabledScope())
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.calls)
	}
}

func TestQuestionRepositorySkipsEmptyScopes(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewQuestionRepository(newClient(mr), memory.NewStaticQuestionLoader(sampleCategories(), sampleQuestions()), time.Minute)
	questions, err := repo.Questions(context.Background(), domain.Scope{CategoryIDs: []int64{42}})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
	if mr.Exists("millionaire:questions:categories:42") {
		t.Fatalf("empty scopes must not be cached")
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, scope domain.Scope) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, scope)
}

func sampleCategories() []domain.Category {
	return []domain.Category{{ID: 1, Name: "Science", Enabled: true}}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:         1,
			Text:       "What is 2 + 2?",
			CategoryID: 1,
			Answers: []domain.Answer{
				{ID: 11, Text: "3"},
				{ID: 12, Text: "4", Correct: true},
				{ID: 13, Text: "5"},
				{ID: 14, Text: "22"},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
