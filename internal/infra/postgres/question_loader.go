package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"millionaire-quiz-service/internal/domain"
)

// QuestionLoader loads questions with their answers from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

const questionsByEnabledCategories = `
SELECT q.id, q.question, q.category_id, c.category
FROM questions q
JOIN categories c ON c.id = q.category_id
WHERE c.is_enabled
ORDER BY q.id`

const questionsByCategoryIDs = `
SELECT q.id, q.question, q.category_id, c.category
FROM questions q
JOIN categories c ON c.id = q.category_id
WHERE c.id = ANY($1)
ORDER BY q.id`

const answersByQuestionIDs = `
SELECT id, question_id, answer, is_correct
FROM answers
WHERE question_id = ANY($1)
ORDER BY question_id, id`

func (l *QuestionLoader) LoadQuestions(ctx context.Context, scope domain.Scope) ([]domain.Question, error) {
	query, args := questionsByEnabledCategories, []interface{}{}
	if scope.Explicit() {
		query, args = questionsByCategoryIDs, []interface{}{scope.CategoryIDs}
	}

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	index := make(map[int64]int)
	ids := make([]int64, 0)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.CategoryID, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		index[q.ID] = len(questions)
		ids = append(ids, q.ID)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	answers, err := l.pool.Query(ctx, answersByQuestionIDs, ids)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer answers.Close()

	for answers.Next() {
		var (
			a          domain.Answer
			questionID int64
		)
		if err := answers.Scan(&a.ID, &questionID, &a.Text, &a.Correct); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if i, ok := index[questionID]; ok {
			questions[i].Answers = append(questions[i].Answers, a)
		}
	}
	if err := answers.Err(); err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	return questions, nil
}
