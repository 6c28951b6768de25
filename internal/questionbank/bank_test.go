package questionbank

import (
	"strings"
	"testing"

	"millionaire-quiz-service/internal/domain"
)

func TestDefaultBankFillsTheLadder(t *testing.T) {
	bank, err := Default()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	categories, questions := bank.Domain()
	enabled := make(map[int64]bool)
	for _, c := range categories {
		enabled[c.ID] = c.Enabled
	}
	playable := 0
	for _, q := range questions {
		if enabled[q.CategoryID] {
			playable++
		}
		if _, ok := q.CorrectAnswer(); !ok {
			t.Fatalf("question %d has no correct answer", q.ID)
		}
	}
	if playable < domain.LadderSize {
		t.Fatalf("expected at least %d playable questions, got %d", domain.LadderSize, playable)
	}
}

func TestParseAssignsIDsInOrder(t *testing.T) {
	bank, err := Parse([]byte(`
categories:
  - category: Science
    questions:
      - question: What is H2O?
        answers:
          - answer: Water
            correct: true
          - answer: Salt
  - category: Retired
    enabled: false
    questions:
      - question: Old one?
        answers:
          - answer: "Yes"
            correct: true
          - answer: "No"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	categories, questions := bank.Domain()
	if len(categories) != 2 || !categories[0].Enabled || categories[1].Enabled {
		t.Fatalf("unexpected categories %+v", categories)
	}
	if len(questions) != 2 || questions[1].ID != 2 || questions[1].CategoryID != 2 {
		t.Fatalf("unexpected questions %+v", questions)
	}
	if questions[1].Answers[0].ID != 3 || questions[0].Category != "Science" {
		t.Fatalf("unexpected answer ids %+v", questions)
	}
}

func TestParseRejectsAmbiguousQuestions(t *testing.T) {
	_, err := Parse([]byte(`
categories:
  - category: Science
    questions:
      - question: Pick two?
        answers:
          - answer: A
            correct: true
          - answer: B
            correct: true
`))
	if err == nil || !strings.Contains(err.Error(), "exactly one correct") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
