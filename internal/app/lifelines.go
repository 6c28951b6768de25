package app

import "millionaire-quiz-service/internal/domain"

const noMoreQuestionsText = "No more questions available to switch to!"

// UseLifeline spends a lifeline on the active question. Spending one that is
// already used is a silent no-op. Switch and double dip with nothing left to
// move to report a notice and leave the lifeline unspent.
func (s *Session) UseLifeline(kind domain.Lifeline) (domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !knownLifeline(kind) {
		return s.snapshotLocked(), domain.ErrUnknownLifeline
	}
	if err := s.requirePhaseLocked(domain.PhaseSelecting); err != nil {
		return s.snapshotLocked(), err
	}
	if s.used[kind] {
		return s.snapshotLocked(), nil
	}

	var notice *domain.Notice
	switch kind {
	case domain.LifelineFiftyFifty:
		s.fiftyFiftyLocked()
	case domain.LifelineAskAudience:
		notice = infoNotice("The audience thinks the answer is: " + s.correctTextLocked())
	case domain.LifelinePhoneAFriend:
		notice = infoNotice("Your friend says: I think the answer is " + s.correctTextLocked())
	case domain.LifelineSwitchQuestion, domain.LifelineDoubleDip:
		available := s.hasNextLocked()
		if kind == domain.LifelineDoubleDip {
			available = s.canAdvanceLocked()
		}
		if !available {
			state := s.snapshotLocked()
			state.Notice = &domain.Notice{Text: noMoreQuestionsText, Level: domain.NoticeError}
			return state, nil
		}
		if kind == domain.LifelineSwitchQuestion {
			s.switchQuestionLocked()
		} else {
			s.position++
		}
		s.activateLocked()
	}

	s.used[kind] = true
	state := s.snapshotLocked()
	state.Notice = notice
	return state, nil
}

// fiftyFiftyLocked hides every incorrect answer but one, chosen at random.
func (s *Session) fiftyFiftyLocked() {
	incorrect := make([]domain.Answer, 0, len(s.order))
	for _, a := range s.order {
		if !a.Correct {
			incorrect = append(incorrect, a)
		}
	}
	if len(incorrect) < 2 {
		return
	}
	incorrect = shuffleAnswers(s.rnd, incorrect)
	for _, a := range incorrect[:len(incorrect)-1] {
		s.removed[a.ID] = struct{}{}
	}
}

// switchQuestionLocked drops the active question so the next one in the
// sequence takes its place at the same position.
func (s *Session) switchQuestionLocked() {
	next := make([]domain.Question, 0, len(s.questions)-1)
	next = append(next, s.questions[:s.position]...)
	next = append(next, s.questions[s.position+1:]...)
	s.questions = next
}

func (s *Session) correctTextLocked() string {
	for _, a := range s.order {
		if a.Correct {
			return a.Text
		}
	}
	return ""
}

func infoNotice(text string) *domain.Notice {
	return &domain.Notice{Text: text, Level: domain.NoticeInfo}
}

func knownLifeline(kind domain.Lifeline) bool {
	for _, l := range domain.Lifelines {
		if l == kind {
			return true
		}
	}
	return false
}
