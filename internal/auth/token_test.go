package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	raw, err := tokens.Issue(User{ID: 42, Username: "sam", Role: RoleUser}, "sam@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	user, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != 42 || user.Username != "sam" || user.Role != RoleUser {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	raw, _ := other.Issue(User{ID: 1, Role: RoleUser}, "")
	if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for foreign signature, got %v", err)
	}

	issuedAt := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issuedAt }
	raw, _ = tokens.Issue(User{ID: 1, Role: RoleAdministrator}, "")
	tokens.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}

	if _, err := tokens.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected garbage rejected, got %v", err)
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	tokens := NewTokenService("test-secret", 0)
	raw, _ := tokens.Issue(User{ID: 3, Role: "guest"}, "")
	if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected unknown role rejected, got %v", err)
	}
}

func TestMiddlewareTokenSources(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	raw, _ := tokens.Issue(User{ID: 7, Role: RoleUser}, "")

	var seen int64
	handler := NewMiddleware(tokens).RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatalf("expected user in context")
		}
		seen = user.ID
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]func(r *http.Request){
		"cookie": func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: raw}) },
		"bearer": func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+raw) },
		"query":  func(r *http.Request) { r.URL.RawQuery = "token=" + raw },
	}
	for name, attach := range cases {
		seen = 0
		req := httptest.NewRequest(http.MethodGet, "/v1/results", nil)
		attach(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent || seen != 7 {
			t.Fatalf("%s: expected user 7 authenticated, got status %d user %d", name, rec.Code, seen)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/results", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
