package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"millionaire-quiz-service/internal/domain"
)

// SessionRepository abstracts where live games are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionRepository loads the question sequence for a scope (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context, scope domain.Scope) ([]domain.Question, error)
}

// ResultStore persists finished games and serves a player's history.
type ResultStore interface {
	RecordResult(ctx context.Context, result domain.QuizResult) error
	ListResults(ctx context.Context, userID int64) ([]domain.QuizResult, error)
}

// QuizService contains the game use cases.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionRepository
	results   ResultStore
	log       logrus.FieldLogger

	newID         func() string
	newRand       func() RandSource
	now           func() time.Time
	recordTimeout time.Duration
}

// Option customises a QuizService.
type Option func(*QuizService)

// WithRandSource replaces the per-session random source factory.
func WithRandSource(f func() RandSource) Option {
	return func(s *QuizService) { s.newRand = f }
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(f func() string) Option {
	return func(s *QuizService) { s.newID = f }
}

func NewQuizService(sessions SessionRepository, questions QuestionRepository, results ResultStore, logger logrus.FieldLogger, opts ...Option) *QuizService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &QuizService{
		sessions:  sessions,
		questions: questions,
		results:   results,
		log:       logger,
		newID:     uuid.NewString,
		newRand: func() RandSource {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		now:           time.Now,
		recordTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start fetches the questions for scope and opens a new game for the user.
// An empty scope yields domain.ErrNoQuestions and no session.
func (s *QuizService) Start(ctx context.Context, userID int64, scope domain.Scope) (domain.GameState, error) {
	log := s.log.WithFields(logrus.Fields{"userId": userID, "scope": scope.Key()})

	questions, err := s.questions.Questions(ctx, scope)
	if err != nil {
		log.WithError(err).Warn("question fetch failed")
		return domain.GameState{}, fmt.Errorf("%w: %w", domain.ErrQuestionsUnavailable, err)
	}

	session, err := newSessionWithClock(s.newID(), userID, questions, s.newRand(), s.now)
	if err != nil {
		log.WithError(err).Info("game not started")
		return domain.GameState{}, err
	}
	s.sessions.Put(session)

	log.WithFields(logrus.Fields{
		"sessionId": session.ID(),
		"questions": len(questions),
	}).Info("game started")
	return session.State(), nil
}

// State returns the current snapshot of a game.
func (s *QuizService) State(_ context.Context, userID int64, sessionID string) (domain.GameState, error) {
	session, err := s.session(userID, sessionID)
	if err != nil {
		return domain.GameState{}, err
	}
	return session.State(), nil
}

// Answer submits an answer for the active question.
func (s *QuizService) Answer(ctx context.Context, userID int64, sessionID string, answerID int64) (domain.GameState, error) {
	return s.apply(ctx, userID, sessionID, func(session *Session) (domain.GameState, error) {
		return session.SubmitAnswer(answerID)
	})
}

// Continue leaves the reveal phase.
func (s *QuizService) Continue(ctx context.Context, userID int64, sessionID string) (domain.GameState, error) {
	return s.apply(ctx, userID, sessionID, (*Session).Continue)
}

// WalkAway ends the game at the current level.
func (s *QuizService) WalkAway(ctx context.Context, userID int64, sessionID string) (domain.GameState, error) {
	return s.apply(ctx, userID, sessionID, (*Session).WalkAway)
}

// UseLifeline spends a lifeline on the active question.
func (s *QuizService) UseLifeline(ctx context.Context, userID int64, sessionID string, kind domain.Lifeline) (domain.GameState, error) {
	return s.apply(ctx, userID, sessionID, func(session *Session) (domain.GameState, error) {
		return session.UseLifeline(kind)
	})
}

// Abandon drops an unfinished game without recording anything.
func (s *QuizService) Abandon(_ context.Context, userID int64, sessionID string) {
	session, err := s.session(userID, sessionID)
	if err != nil {
		return
	}
	if session.Outcome().Terminal() {
		return
	}
	s.sessions.Delete(sessionID)
	s.log.WithFields(logrus.Fields{"userId": userID, "sessionId": sessionID}).Info("game abandoned")
}

// History lists the user's finished games, newest first.
func (s *QuizService) History(ctx context.Context, userID int64) ([]domain.QuizResult, error) {
	return s.results.ListResults(ctx, userID)
}

func (s *QuizService) session(userID int64, sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok || session.UserID() != userID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *QuizService) apply(ctx context.Context, userID int64, sessionID string, action func(*Session) (domain.GameState, error)) (domain.GameState, error) {
	session, err := s.session(userID, sessionID)
	if err != nil {
		return domain.GameState{}, err
	}
	state, err := action(session)
	if err != nil {
		return state, err
	}
	if state.Outcome.Terminal() {
		s.finish(ctx, session)
	}
	return state, nil
}

// finish records the result of a terminal game once. The session stays in the
// repository so the final state can be read again until it idles out.
// A failed write is logged; the player still gets the outcome.
func (s *QuizService) finish(ctx context.Context, session *Session) {
	result, ok := session.claimResult()
	if !ok {
		return
	}
	log := s.log.WithFields(logrus.Fields{
		"userId":         result.UserID,
		"sessionId":      session.ID(),
		"outcome":        result.Outcome,
		"questionsShown": result.QuestionsShown,
		"prize":          result.Prize,
	})

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	defer cancel()
	if err := s.results.RecordResult(recordCtx, result); err != nil {
		log.WithError(err).Error("failed to record quiz result")
		return
	}
	log.Info("quiz result recorded")
}
