package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	"millionaire-quiz-service/internal/questionbank"
)

type categoryRow struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        int64  `bun:"id,pk,autoincrement"`
	Name      string `bun:"category,notnull"`
	IsEnabled bool   `bun:"is_enabled,notnull"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Text       string `bun:"question,notnull"`
	CategoryID int64  `bun:"category_id,notnull"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID         int64  `bun:"id,pk,autoincrement"`
	QuestionID int64  `bun:"question_id,notnull"`
	Text       string `bun:"answer,notnull"`
	IsCorrect  bool   `bun:"is_correct,notnull"`
}

// SeedStats reports what a seed run inserted.
type SeedStats struct {
	Categories int
	Questions  int
}

// Seed inserts the bank in one transaction. Categories that already exist by
// name are skipped along with their questions, so reruns are harmless.
func Seed(ctx context.Context, db *bun.DB, bank questionbank.Bank) (SeedStats, error) {
	var stats SeedStats
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, c := range bank.Categories {
			exists, err := tx.NewSelect().Model((*categoryRow)(nil)).Where("category = ?", c.Name).Exists(ctx)
			if err != nil {
				return fmt.Errorf("check category %q: %w", c.Name, err)
			}
			if exists {
				continue
			}

			category := &categoryRow{Name: c.Name, IsEnabled: c.IsEnabled()}
			if _, err := tx.NewInsert().Model(category).Returning("id").Exec(ctx); err != nil {
				return fmt.Errorf("insert category %q: %w", c.Name, err)
			}
			stats.Categories++

			for _, q := range c.Questions {
				question := &questionRow{Text: q.Text, CategoryID: category.ID}
				if _, err := tx.NewInsert().Model(question).Returning("id").Exec(ctx); err != nil {
					return fmt.Errorf("insert question: %w", err)
				}
				answers := make([]answerRow, 0, len(q.Answers))
				for _, a := range q.Answers {
					answers = append(answers, answerRow{QuestionID: question.ID, Text: a.Text, IsCorrect: a.Correct})
				}
				if _, err := tx.NewInsert().Model(&answers).Exec(ctx); err != nil {
					return fmt.Errorf("insert answers: %w", err)
				}
				stats.Questions++
			}
		}
		return nil
	})
	return stats, err
}
