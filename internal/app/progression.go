package app

import "millionaire-quiz-service/internal/domain"

// SubmitAnswer locks in an answer for the active question. A correct answer
// moves the game into the reveal phase; a wrong one ends it, paying out the
// level below the current one.
func (s *Session) SubmitAnswer(answerID int64) (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhaseLocked(domain.PhaseSelecting); err != nil {
		return s.snapshotLocked(), err
	}

	var (
		answer domain.Answer
		found  bool
	)
	for _, a := range s.order {
		if a.ID == answerID {
			answer, found = a, true
			break
		}
	}
	if !found {
		return s.snapshotLocked(), domain.ErrAnswerNotFound
	}
	if _, removed := s.removed[answerID]; removed {
		return s.snapshotLocked(), domain.ErrAnswerRemoved
	}

	s.selected = answerID
	if answer.Correct {
		s.reveal = true
		return s.snapshotLocked(), nil
	}
	s.finishLocked(domain.OutcomeLost, domain.PrizeAt(s.position-1))
	return s.snapshotLocked(), nil
}

// Continue leaves the reveal phase: it advances to the next question, or
// ends the game once the top of the ladder has been answered.
func (s *Session) Continue() (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhaseLocked(domain.PhaseRevealing); err != nil {
		return s.snapshotLocked(), err
	}

	switch {
	case s.position == domain.LadderSize-1:
		s.finishLocked(domain.OutcomeWon, domain.PrizeAt(s.position))
	case s.hasNextLocked():
		s.position++
		s.activateLocked()
	default:
		// Sequence exhausted below the top level: keep what was earned.
		s.finishLocked(domain.OutcomeWalkedAway, domain.PrizeAt(s.position))
	}
	return s.snapshotLocked(), nil
}

// WalkAway ends the game keeping the value of the current level. Leaving
// during the reveal of the top question counts as a win.
func (s *Session) WalkAway() (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome.Terminal() {
		return s.snapshotLocked(), domain.ErrSessionOver
	}
	if s.reveal && s.position == domain.LadderSize-1 {
		s.finishLocked(domain.OutcomeWon, domain.PrizeAt(s.position))
		return s.snapshotLocked(), nil
	}
	s.finishLocked(domain.OutcomeWalkedAway, domain.PrizeAt(s.position))
	return s.snapshotLocked(), nil
}
