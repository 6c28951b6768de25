package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"millionaire-quiz-service/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps a service error onto an HTTP status and a stable code shared
// by the REST and websocket surfaces.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNoQuestions):
		return http.StatusNotFound, "noQuestions"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "sessionNotFound"
	case errors.Is(err, domain.ErrSessionOver):
		return http.StatusConflict, "sessionOver"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalidTransition"
	case errors.Is(err, domain.ErrAnswerNotFound):
		return http.StatusBadRequest, "answerNotFound"
	case errors.Is(err, domain.ErrAnswerRemoved):
		return http.StatusBadRequest, "answerRemoved"
	case errors.Is(err, domain.ErrUnknownLifeline):
		return http.StatusBadRequest, "unknownLifeline"
	case errors.Is(err, domain.ErrInvalidScope):
		return http.StatusBadRequest, "invalidScope"
	case errors.Is(err, domain.ErrQuestionsUnavailable):
		return http.StatusBadGateway, "questionsUnavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeServiceError hides internal failures behind a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	writeError(w, status, code, message)
}
