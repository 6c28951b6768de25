package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"millionaire-quiz-service/internal/app"
	"millionaire-quiz-service/internal/auth"
	"millionaire-quiz-service/internal/domain"
)

// RESTHandler exposes the game as request/response endpoints.
type RESTHandler struct {
	service *app.QuizService
	log     logrus.FieldLogger
}

func NewRESTHandler(service *app.QuizService, logger logrus.FieldLogger) *RESTHandler {
	return &RESTHandler{service: service, log: logger}
}

type answerRequest struct {
	AnswerID int64 `json:"answerId"`
}

type resultsResponse struct {
	Results []resultView `json:"results"`
}

type resultView struct {
	domain.QuizResult
	Medal domain.Medal `json:"medal"`
}

// StartGame handles POST /v1/games?categories=1,2
func (h *RESTHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return
	}
	scope, err := domain.ParseScope(r.URL.Query().Get("categories"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	state, err := h.service.Start(r.Context(), user.ID, scope)
	if err != nil {
		h.logFailure(r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// GetGame handles GET /v1/games/{id}
func (h *RESTHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	h.withGame(w, r, func(user auth.User, id string) (domain.GameState, error) {
		return h.service.State(r.Context(), user.ID, id)
	})
}

// Answer handles POST /v1/games/{id}/answers
func (h *RESTHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalidBody", "invalid request body")
		return
	}
	h.withGame(w, r, func(user auth.User, id string) (domain.GameState, error) {
		return h.service.Answer(r.Context(), user.ID, id, req.AnswerID)
	})
}

// Continue handles POST /v1/games/{id}/continue
func (h *RESTHandler) Continue(w http.ResponseWriter, r *http.Request) {
	h.withGame(w, r, func(user auth.User, id string) (domain.GameState, error) {
		return h.service.Continue(r.Context(), user.ID, id)
	})
}

// WalkAway handles POST /v1/games/{id}/walk-away
func (h *RESTHandler) WalkAway(w http.ResponseWriter, r *http.Request) {
	h.withGame(w, r, func(user auth.User, id string) (domain.GameState, error) {
		return h.service.WalkAway(r.Context(), user.ID, id)
	})
}

// UseLifeline handles POST /v1/games/{id}/lifelines/{kind}
func (h *RESTHandler) UseLifeline(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseLifeline(mux.Vars(r)["kind"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.withGame(w, r, func(user auth.User, id string) (domain.GameState, error) {
		return h.service.UseLifeline(r.Context(), user.ID, id, kind)
	})
}

// Ladder handles GET /v1/ladder
func (h *RESTHandler) Ladder(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"levels": domain.PrizeLadder()})
}

// Results handles GET /v1/results
func (h *RESTHandler) Results(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return
	}
	results, err := h.service.History(r.Context(), user.ID)
	if err != nil {
		h.logFailure(r, err)
		writeServiceError(w, err)
		return
	}
	out := resultsResponse{Results: make([]resultView, 0, len(results))}
	for _, res := range results {
		out.Results = append(out.Results, resultView{
			QuizResult: res,
			Medal:      domain.MedalFor(res.Outcome, res.QuestionsShown),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RESTHandler) withGame(w http.ResponseWriter, r *http.Request, action func(auth.User, string) (domain.GameState, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return
	}
	state, err := action(user, mux.Vars(r)["id"])
	if err != nil {
		h.logFailure(r, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *RESTHandler) logFailure(r *http.Request, err error) {
	status, code := classify(err)
	entry := h.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"code":   code,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
		return
	}
	entry.Debug("request rejected")
}
