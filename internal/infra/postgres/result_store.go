package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"millionaire-quiz-service/internal/domain"
)

type quizResultRow struct {
	bun.BaseModel `bun:"table:quiz_results,alias:qr"`

	ID             int64     `bun:"id,pk,autoincrement"`
	UserID         int64     `bun:"user_id,notnull"`
	QuestionsShown int       `bun:"questions_shown,notnull"`
	TotalQuestions int       `bun:"total_questions,notnull"`
	Progress       float64   `bun:"progress,notnull"`
	Outcome        string    `bun:"outcome,notnull"`
	Prize          int       `bun:"prize,notnull"`
	CompletedAt    time.Time `bun:"completed_at,notnull"`
}

// ResultStore persists finished games in the quiz_results table.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) RecordResult(ctx context.Context, result domain.QuizResult) error {
	row := &quizResultRow{
		UserID:         result.UserID,
		QuestionsShown: result.QuestionsShown,
		TotalQuestions: result.TotalQuestions,
		Progress:       result.Progress,
		Outcome:        string(result.Outcome),
		Prize:          result.Prize,
		CompletedAt:    result.CompletedAt.UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

// ListResults returns the user's results, newest first.
func (s *ResultStore) ListResults(ctx context.Context, userID int64) ([]domain.QuizResult, error) {
	var rows []quizResultRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("completed_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}

	out := make([]domain.QuizResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.QuizResult{
			ID:             row.ID,
			UserID:         row.UserID,
			QuestionsShown: row.QuestionsShown,
			TotalQuestions: row.TotalQuestions,
			Progress:       row.Progress,
			Outcome:        domain.Outcome(row.Outcome),
			Prize:          row.Prize,
			CompletedAt:    row.CompletedAt,
		})
	}
	return out, nil
}
