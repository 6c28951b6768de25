package http

import (
	"fmt"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"millionaire-quiz-service/internal/app"
	"millionaire-quiz-service/internal/auth"
	"millionaire-quiz-service/internal/domain"
	"millionaire-quiz-service/internal/infra/memory"
)

type testServer struct {
	*httptest.Server
	sessions *memory.SessionStore
	tokens   *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	sessions := memory.NewSessionStore(time.Hour)
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(
		[]domain.Category{
			{ID: 1, Name: "General", Enabled: true},
			{ID: 2, Name: "Archived", Enabled: false},
		},
		ladderQuestions(15),
	), time.Minute)

	service := app.NewQuizService(sessions, questions, memory.NewResultStore(), logger,
		app.WithRandSource(func() app.RandSource { return rand.New(rand.NewSource(1)) }),
	)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	router := NewRouter(NewRESTHandler(service, logger), NewWSHandler(service, logger), auth.NewMiddleware(tokens))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{Server: server, sessions: sessions, tokens: tokens}
}

func (s *testServer) token(t *testing.T, userID int64) string {
	t.Helper()
	raw, err := s.tokens.Issue(auth.User{ID: userID, Username: fmt.Sprintf("player%d", userID), Role: auth.RoleUser}, "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return raw
}

// ladderQuestions builds questions whose correct answer id is questionID*10+1.
func ladderQuestions(n int) []domain.Question {
	questions := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		id := int64(i)
		questions = append(questions, domain.Question{
			ID:         id,
			Text:       fmt.Sprintf("Question %d", i),
			CategoryID: 1,
			Answers: []domain.Answer{
				{ID: id*10 + 1, Text: fmt.Sprintf("right %d", i), Correct: true},
				{ID: id*10 + 2, Text: "wrong a"},
				{ID: id*10 + 3, Text: "wrong b"},
				{ID: id*10 + 4, Text: "wrong c"},
			},
		})
	}
	return questions
}
