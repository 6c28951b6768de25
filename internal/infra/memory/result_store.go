package memory

import (
	"context"
	"sort"
	"sync"

	"millionaire-quiz-service/internal/domain"
)

// ResultStore keeps finished games in memory; used when Postgres is not configured.
type ResultStore struct {
	mu      sync.RWMutex
	nextID  int64
	results []domain.QuizResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) RecordResult(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	result.ID = s.nextID
	s.results = append(s.results, result)
	return nil
}

// ListResults returns the user's results, newest first.
func (s *ResultStore) ListResults(_ context.Context, userID int64) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizResult, 0)
	for _, r := range s.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
