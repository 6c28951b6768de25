package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"millionaire-quiz-service/internal/auth"
	"millionaire-quiz-service/internal/domain"
)

func TestRESTGameFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, 5)

	var state domain.GameState
	status := srv.do(t, token, http.MethodPost, "/v1/games", nil, &state)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if state.Phase != domain.PhaseSelecting || state.Question == nil || state.CorrectAnswerID != 0 {
		t.Fatalf("unexpected start state %+v", state)
	}
	id := state.SessionID

	status = srv.do(t, token, http.MethodPost, "/v1/games/"+id+"/lifelines/fiftyFifty", nil, &state)
	if status != http.StatusOK || !state.Lifelines.FiftyFifty {
		t.Fatalf("expected fifty-fifty applied, got %d %+v", status, state.Lifelines)
	}

	correct := state.Question.ID*10 + 1
	status = srv.do(t, token, http.MethodPost, "/v1/games/"+id+"/answers", map[string]int64{"answerId": correct}, &state)
	if status != http.StatusOK || state.Phase != domain.PhaseRevealing || state.CorrectAnswerID != correct {
		t.Fatalf("expected reveal, got %d %+v", status, state)
	}

	var body errorBody
	status = srv.do(t, token, http.MethodPost, "/v1/games/"+id+"/answers", map[string]int64{"answerId": correct}, &body)
	if status != http.StatusConflict || body.Code != "invalidTransition" {
		t.Fatalf("expected 409 invalidTransition, got %d %+v", status, body)
	}

	status = srv.do(t, token, http.MethodPost, "/v1/games/"+id+"/continue", nil, &state)
	if status != http.StatusOK || state.Position != 1 {
		t.Fatalf("expected position 1, got %d %+v", status, state)
	}

	status = srv.do(t, token, http.MethodPost, "/v1/games/"+id+"/walk-away", nil, &state)
	if status != http.StatusOK || state.Outcome != domain.OutcomeWalkedAway || state.Prize != 200 {
		t.Fatalf("expected walk away with $200, got %d %+v", status, state)
	}

	var final domain.GameState
	status = srv.do(t, token, http.MethodGet, "/v1/games/"+id, nil, &final)
	if status != http.StatusOK || final.Outcome != domain.OutcomeWalkedAway || final.Prize != 200 {
		t.Fatalf("expected the finished game to stay readable, got %d %+v", status, final)
	}

	body = errorBody{}
	status = srv.do(t, token, http.MethodPost, "/v1/games/"+id+"/continue", nil, &body)
	if status != http.StatusConflict || body.Code != "sessionOver" {
		t.Fatalf("expected 409 sessionOver, got %d %+v", status, body)
	}

	var results struct {
		Results []struct {
			QuestionsShown int          `json:"questionsShown"`
			Outcome        string       `json:"outcome"`
			Medal          domain.Medal `json:"medal"`
		} `json:"results"`
	}
	status = srv.do(t, token, http.MethodGet, "/v1/results", nil, &results)
	if status != http.StatusOK || len(results.Results) != 1 {
		t.Fatalf("expected one result, got %d %+v", status, results)
	}
	if results.Results[0].QuestionsShown != 2 || results.Results[0].Medal != domain.MedalNone {
		t.Fatalf("unexpected result %+v", results.Results[0])
	}
}

func TestRESTStartWithoutQuestions(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, 5)

	var body errorBody
	status := srv.do(t, token, http.MethodPost, "/v1/games?categories=2", nil, &body)
	if status != http.StatusNotFound || body.Code != "noQuestions" {
		t.Fatalf("expected 404 noQuestions for an empty category, got %d %+v", status, body)
	}
	if srv.sessions.Len() != 0 {
		t.Fatalf("no session may be created")
	}

	status = srv.do(t, token, http.MethodPost, "/v1/games?categories=one", nil, &body)
	if status != http.StatusBadRequest || body.Code != "invalidScope" {
		t.Fatalf("expected 400 invalidScope, got %d %+v", status, body)
	}
}

func TestRESTUnknownLifelineAndForeignGame(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.token(t, 5)
	stranger := srv.token(t, 6)

	var state domain.GameState
	srv.do(t, owner, http.MethodPost, "/v1/games", nil, &state)

	var body errorBody
	status := srv.do(t, owner, http.MethodPost, "/v1/games/"+state.SessionID+"/lifelines/askTheHost", nil, &body)
	if status != http.StatusBadRequest || body.Code != "unknownLifeline" {
		t.Fatalf("expected 400 unknownLifeline, got %d %+v", status, body)
	}

	status = srv.do(t, stranger, http.MethodGet, "/v1/games/"+state.SessionID, nil, &body)
	if status != http.StatusNotFound {
		t.Fatalf("expected another player to get 404, got %d", status)
	}
}

func TestRESTRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/ladder")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/ladder", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: srv.token(t, 5)})
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get ladder: %v", err)
	}
	defer resp.Body.Close()
	var ladder struct {
		Levels []domain.PrizeLevel `json:"levels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ladder); err != nil {
		t.Fatalf("decode ladder: %v", err)
	}
	if len(ladder.Levels) != domain.LadderSize || ladder.Levels[14].Amount != 1000000 {
		t.Fatalf("unexpected ladder %+v", ladder.Levels)
	}
}

func TestHealthzIsPublic(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.StatusCode != http.StatusOK || string(raw) != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", resp.StatusCode, raw)
	}
}

func (s *testServer) do(t *testing.T, token, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}
