package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session does not exist for the caller.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrNoQuestions means the requested scope has nothing to play; the game never starts.
	ErrNoQuestions = errors.New("no questions available")
	// ErrQuestionsUnavailable wraps question repository failures.
	ErrQuestionsUnavailable = errors.New("questions could not be loaded")
	// ErrSessionOver is returned for any action after the game ended.
	ErrSessionOver = errors.New("game session is over")
	// ErrInvalidTransition rejects actions the current phase does not allow.
	ErrInvalidTransition = errors.New("action not allowed in the current phase")
	// ErrAnswerNotFound indicates a submitted answer ID is not part of the active question.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrAnswerRemoved indicates the answer was hidden by 50:50.
	ErrAnswerRemoved = errors.New("answer was removed")
	// ErrUnknownLifeline indicates an unrecognised lifeline name.
	ErrUnknownLifeline = errors.New("unknown lifeline")
	// ErrInvalidScope indicates a malformed category list.
	ErrInvalidScope = errors.New("invalid category list")
)
