package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Category groups questions; only enabled categories feed the default game.
type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"category"`
	Enabled bool   `json:"isEnabled"`
}

// Answer is one of the choices offered for a question.
type Answer struct {
	ID      int64  `json:"id"`
	Text    string `json:"answer"`
	Correct bool   `json:"isCorrect"`
}

// Question models an MCQ question with exactly one correct answer.
type Question struct {
	ID         int64    `json:"id"`
	Text       string   `json:"question"`
	CategoryID int64    `json:"categoryId"`
	Category   string   `json:"category"`
	Answers    []Answer `json:"answers"`
}

// CorrectAnswer returns the answer flagged as correct.
func (q Question) CorrectAnswer() (Answer, bool) {
	for _, a := range q.Answers {
		if a.Correct {
			return a, true
		}
	}
	return Answer{}, false
}

// Scope selects which questions a game draws from. An empty scope means
// every enabled category.
type Scope struct {
	CategoryIDs []int64
}

// EnabledScope is the default scope used by the ladder game.
func EnabledScope() Scope {
	return Scope{}
}

// Explicit reports whether the scope names its categories.
func (s Scope) Explicit() bool {
	return len(s.CategoryIDs) > 0
}

// Key is a stable cache key for the scope.
func (s Scope) Key() string {
	if !s.Explicit() {
		return "enabled"
	}
	ids := append([]int64(nil), s.CategoryIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, 0, len(ids))
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return "categories:" + strings.Join(parts, ",")
}

// ParseScope parses a comma separated list of category ids ("1,2,3").
func ParseScope(raw string) (Scope, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EnabledScope(), nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return Scope{}, ErrInvalidScope
		}
		ids = append(ids, id)
	}
	return Scope{CategoryIDs: ids}, nil
}

// Lifeline identifies one of the five one-time helps.
type Lifeline string

const (
	LifelineFiftyFifty     Lifeline = "fiftyFifty"
	LifelineAskAudience    Lifeline = "askAudience"
	LifelinePhoneAFriend   Lifeline = "phoneAFriend"
	LifelineSwitchQuestion Lifeline = "switchQuestion"
	LifelineDoubleDip      Lifeline = "doubleDip"
)

// Lifelines lists every lifeline in display order.
var Lifelines = []Lifeline{
	LifelineFiftyFifty,
	LifelineAskAudience,
	LifelinePhoneAFriend,
	LifelineSwitchQuestion,
	LifelineDoubleDip,
}

// ParseLifeline accepts the canonical names plus the short aliases the
// player client sends ("switch", "double").
func ParseLifeline(raw string) (Lifeline, error) {
	switch raw {
	case "switch":
		return LifelineSwitchQuestion, nil
	case "double":
		return LifelineDoubleDip, nil
	}
	for _, l := range Lifelines {
		if string(l) == raw {
			return l, nil
		}
	}
	return "", ErrUnknownLifeline
}

// LifelineState reports which lifelines have been spent.
type LifelineState struct {
	FiftyFifty     bool `json:"fiftyFifty"`
	AskAudience    bool `json:"askAudience"`
	PhoneAFriend   bool `json:"phoneAFriend"`
	SwitchQuestion bool `json:"switchQuestion"`
	DoubleDip      bool `json:"doubleDip"`
}

// Outcome is the end state of a game.
type Outcome string

const (
	OutcomeInProgress Outcome = "in-progress"
	OutcomeWon        Outcome = "won"
	OutcomeWalkedAway Outcome = "walked-away"
	OutcomeLost       Outcome = "lost"
)

// Terminal reports whether no further transitions are possible.
func (o Outcome) Terminal() bool {
	return o != OutcomeInProgress && o != ""
}

// Phase mirrors the progression state machine.
type Phase string

const (
	PhaseSelecting Phase = "selecting"
	PhaseRevealing Phase = "revealing"
	PhaseTerminal  Phase = "terminal"
)

// NoticeLevel classifies transient messages shown to the player.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient message produced by a lifeline.
type Notice struct {
	Text  string      `json:"text"`
	Level NoticeLevel `json:"type"`
}

// AnswerView is an answer as presented to the player, in display order.
type AnswerView struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Text    string `json:"answer"`
	Removed bool   `json:"removed,omitempty"`
}

// QuestionView is the active question without correctness flags.
type QuestionView struct {
	ID       int64        `json:"id"`
	Number   int          `json:"number"`
	Text     string       `json:"question"`
	Category string       `json:"category"`
	Answers  []AnswerView `json:"answers"`
}

// GameState is a snapshot of a game handed to clients.
type GameState struct {
	SessionID       string        `json:"sessionId"`
	Phase           Phase         `json:"phase"`
	Outcome         Outcome       `json:"outcome"`
	Position        int           `json:"position"`
	Level           int           `json:"level"`
	Remaining       int           `json:"remaining"`
	Question        *QuestionView `json:"question,omitempty"`
	Lifelines       LifelineState `json:"lifelinesUsed"`
	WalkAwayPrize   int           `json:"walkAwayPrize"`
	Prize           int           `json:"prize"`
	Medal           Medal         `json:"medal,omitempty"`
	CorrectAnswerID int64         `json:"correctAnswerId,omitempty"`
	SelectedAnswer  int64         `json:"selectedAnswerId,omitempty"`
	Notice          *Notice       `json:"notice,omitempty"`
}

// QuizResult is the persisted outcome of a finished game.
type QuizResult struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	QuestionsShown int       `json:"questionsShown"`
	TotalQuestions int       `json:"totalQuestions"`
	Progress       float64   `json:"progress"`
	Outcome        Outcome   `json:"outcome"`
	Prize          int       `json:"prize"`
	CompletedAt    time.Time `json:"completedAt"`
}

// NewQuizResult derives progress from shown/total.
func NewQuizResult(userID int64, shown, total int, outcome Outcome, prize int, at time.Time) QuizResult {
	progress := 0.0
	if total > 0 {
		progress = float64(shown) / float64(total)
	}
	return QuizResult{
		UserID:         userID,
		QuestionsShown: shown,
		TotalQuestions: total,
		Progress:       progress,
		Outcome:        outcome,
		Prize:          prize,
		CompletedAt:    at,
	}
}
