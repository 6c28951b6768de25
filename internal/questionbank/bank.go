// Package questionbank reads question banks from YAML. The embedded default
// bank backs the in-process loader and seeds fresh databases.
package questionbank

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"millionaire-quiz-service/internal/domain"
)

//go:embed default.yaml
var defaultBank []byte

type Bank struct {
	Categories []Category `yaml:"categories"`
}

type Category struct {
	Name      string     `yaml:"category"`
	Enabled   *bool      `yaml:"enabled"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Text    string   `yaml:"question"`
	Answers []Answer `yaml:"answers"`
}

type Answer struct {
	Text    string `yaml:"answer"`
	Correct bool   `yaml:"correct"`
}

// IsEnabled treats a missing flag as enabled.
func (c Category) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Default returns the bundled bank.
func Default() (Bank, error) {
	return Parse(defaultBank)
}

// Load reads a bank from a YAML file.
func Load(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return Bank{}, fmt.Errorf("parse question bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return Bank{}, err
	}
	return bank, nil
}

// Validate requires every question to carry exactly one correct answer.
func (b Bank) Validate() error {
	var errs []error
	for _, c := range b.Categories {
		if c.Name == "" {
			errs = append(errs, errors.New("category without a name"))
		}
		for _, q := range c.Questions {
			correct := 0
			for _, a := range q.Answers {
				if a.Correct {
					correct++
				}
			}
			if len(q.Answers) < 2 || correct != 1 {
				errs = append(errs, fmt.Errorf("%s: %q needs at least two answers and exactly one correct", c.Name, q.Text))
			}
		}
	}
	return errors.Join(errs...)
}

// Domain assigns sequential ids in file order, the way a fresh database would.
func (b Bank) Domain() ([]domain.Category, []domain.Question) {
	categories := make([]domain.Category, 0, len(b.Categories))
	questions := make([]domain.Question, 0)
	var questionID, answerID int64
	for i, c := range b.Categories {
		category := domain.Category{ID: int64(i + 1), Name: c.Name, Enabled: c.IsEnabled()}
		categories = append(categories, category)
		for _, q := range c.Questions {
			questionID++
			question := domain.Question{
				ID:         questionID,
				Text:       q.Text,
				CategoryID: category.ID,
				Category:   category.Name,
			}
			for _, a := range q.Answers {
				answerID++
				question.Answers = append(question.Answers, domain.Answer{ID: answerID, Text: a.Text, Correct: a.Correct})
			}
			questions = append(questions, question)
		}
	}
	return categories, questions
}
