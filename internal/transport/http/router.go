package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"millionaire-quiz-service/internal/auth"
)

// NewRouter wires the REST and websocket handlers behind the auth middleware.
func NewRouter(rest *RESTHandler, ws *WSHandler, authMW *auth.Middleware) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.Handle("/ws", authMW.RequireUser(http.HandlerFunc(ws.ServeWS))).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(authMW.RequireUser)

	v1.HandleFunc("/games", rest.StartGame).Methods(http.MethodPost)
	v1.HandleFunc("/games/{id}", rest.GetGame).Methods(http.MethodGet)
	v1.HandleFunc("/games/{id}/answers", rest.Answer).Methods(http.MethodPost)
	v1.HandleFunc("/games/{id}/continue", rest.Continue).Methods(http.MethodPost)
	v1.HandleFunc("/games/{id}/walk-away", rest.WalkAway).Methods(http.MethodPost)
	v1.HandleFunc("/games/{id}/lifelines/{kind}", rest.UseLifeline).Methods(http.MethodPost)
	v1.HandleFunc("/ladder", rest.Ladder).Methods(http.MethodGet)
	v1.HandleFunc("/results", rest.Results).Methods(http.MethodGet)

	return r
}
