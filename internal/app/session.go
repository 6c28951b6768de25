package app

import (
	"sync"
	"time"

	"millionaire-quiz-service/internal/domain"
)

// RandSource drives answer shuffling and 50:50 removal. *rand.Rand satisfies it;
// tests pass a seeded one.
type RandSource interface {
	Intn(n int) int
}

// Session is one play-through of the prize ladder.
//
// All mutators take the session lock, so overlapping requests from one
// player serialize and the second one sees the phase the first left behind.
type Session struct {
	id        string
	userID    int64
	createdAt time.Time
	now       func() time.Time
	rnd       RandSource

	mu        sync.Mutex
	questions []domain.Question
	position  int
	reveal    bool
	order     []domain.Answer
	removed   map[int64]struct{}
	used      map[domain.Lifeline]bool
	outcome   domain.Outcome
	prize     int
	selected  int64
	recorded  bool
}

// NewSession starts a game over questions. It fails with domain.ErrNoQuestions
// when the list is empty. The whole list is kept as the pool Switch draws
// from; only the first domain.LadderSize positions are played.
func NewSession(id string, userID int64, questions []domain.Question, rnd RandSource) (*Session, error) {
	return newSessionWithClock(id, userID, questions, rnd, time.Now)
}

func newSessionWithClock(id string, userID int64, questions []domain.Question, rnd RandSource, now func() time.Time) (*Session, error) {
	s := &Session{
		id:        id,
		userID:    userID,
		createdAt: now(),
		now:       now,
		rnd:       rnd,
	}
	if err := s.start(questions); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) start(questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	s.questions = append([]domain.Question(nil), questions...)
	s.position = 0
	s.used = make(map[domain.Lifeline]bool, len(domain.Lifelines))
	s.outcome = domain.OutcomeInProgress
	s.prize = 0
	s.activateLocked()
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// UserID returns the player that owns the session.
func (s *Session) UserID() int64 {
	return s.userID
}

// CreatedAt returns when the game started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// CurrentQuestion returns the question at the current position.
func (s *Session) CurrentQuestion() domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.position]
}

// Outcome returns the current outcome.
func (s *Session) Outcome() domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// State returns a client-safe snapshot of the game.
func (s *Session) State() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// activateLocked resets per-question state for the question at position and
// shuffles its answers once.
func (s *Session) activateLocked() {
	s.reveal = false
	s.selected = 0
	s.removed = make(map[int64]struct{})
	s.order = shuffleAnswers(s.rnd, s.questions[s.position].Answers)
}

func (s *Session) phaseLocked() domain.Phase {
	switch {
	case s.outcome.Terminal():
		return domain.PhaseTerminal
	case s.reveal:
		return domain.PhaseRevealing
	default:
		return domain.PhaseSelecting
	}
}

func (s *Session) requirePhaseLocked(want domain.Phase) error {
	phase := s.phaseLocked()
	if phase == domain.PhaseTerminal {
		return domain.ErrSessionOver
	}
	if phase != want {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (s *Session) hasNextLocked() bool {
	return s.position+1 < len(s.questions)
}

// canAdvanceLocked reports whether a later ladder level can be reached.
func (s *Session) canAdvanceLocked() bool {
	return s.hasNextLocked() && s.position+1 < domain.LadderSize
}

func (s *Session) finishLocked(outcome domain.Outcome, prize int) {
	s.outcome = outcome
	s.prize = prize
}

// questionsShownLocked counts questions reached; a failed question does not count.
func (s *Session) questionsShownLocked() int {
	if s.outcome == domain.OutcomeLost {
		return s.position
	}
	return s.position + 1
}

// claimResult hands out the result of a finished game exactly once.
func (s *Session) claimResult() (domain.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.outcome.Terminal() || s.recorded {
		return domain.QuizResult{}, false
	}
	s.recorded = true
	return domain.NewQuizResult(s.userID, s.questionsShownLocked(), domain.LadderSize, s.outcome, s.prize, s.now()), true
}

func (s *Session) snapshotLocked() domain.GameState {
	phase := s.phaseLocked()
	question := s.questions[s.position]

	answers := make([]domain.AnswerView, 0, len(s.order))
	for i, a := range s.order {
		_, removed := s.removed[a.ID]
		answers = append(answers, domain.AnswerView{
			ID:      a.ID,
			Label:   string(rune('A' + i)),
			Text:    a.Text,
			Removed: removed,
		})
	}

	state := domain.GameState{
		SessionID: s.id,
		Phase:     phase,
		Outcome:   s.outcome,
		Position:  s.position,
		Level:     s.position + 1,
		Remaining: len(s.questions) - s.position - 1,
		Question: &domain.QuestionView{
			ID:       question.ID,
			Number:   s.position + 1,
			Text:     question.Text,
			Category: question.Category,
			Answers:  answers,
		},
		Lifelines: domain.LifelineState{
			FiftyFifty:     s.used[domain.LifelineFiftyFifty],
			AskAudience:    s.used[domain.LifelineAskAudience],
			PhoneAFriend:   s.used[domain.LifelinePhoneAFriend],
			SwitchQuestion: s.used[domain.LifelineSwitchQuestion],
			DoubleDip:      s.used[domain.LifelineDoubleDip],
		},
		WalkAwayPrize:  domain.PrizeAt(s.position),
		Prize:          s.prize,
		SelectedAnswer: s.selected,
	}
	if phase != domain.PhaseSelecting {
		if correct, ok := question.CorrectAnswer(); ok {
			state.CorrectAnswerID = correct.ID
		}
	}
	if phase == domain.PhaseTerminal {
		state.Medal = domain.MedalFor(s.outcome, s.questionsShownLocked())
	}
	return state
}

// shuffleAnswers returns a Fisher–Yates shuffled copy of answers.
func shuffleAnswers(rnd RandSource, answers []domain.Answer) []domain.Answer {
	out := append([]domain.Answer(nil), answers...)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
