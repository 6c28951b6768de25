package domain

import (
	"errors"
	"testing"
	"time"
)

func TestScopeKey(t *testing.T) {
	if key := EnabledScope().Key(); key != "enabled" {
		t.Fatalf("expected enabled key, got %q", key)
	}
	a := Scope{CategoryIDs: []int64{3, 1, 2, 3}}
	b := Scope{CategoryIDs: []int64{1, 2, 3}}
	if a.Key() != b.Key() {
		t.Fatalf("expected order-insensitive keys, got %q vs %q", a.Key(), b.Key())
	}
	if a.CategoryIDs[0] != 3 {
		t.Fatalf("Key must not reorder the caller's slice")
	}
}

func TestParseScope(t *testing.T) {
	scope, err := ParseScope(" 4, 2 ,,7")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(scope.CategoryIDs) != 3 || scope.CategoryIDs[1] != 2 {
		t.Fatalf("unexpected ids %v", scope.CategoryIDs)
	}

	empty, err := ParseScope("")
	if err != nil || empty.Explicit() {
		t.Fatalf("expected enabled scope, got %+v err=%v", empty, err)
	}

	if _, err := ParseScope("1,x"); !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("expected invalid scope, got %v", err)
	}
}

func TestParseLifeline(t *testing.T) {
	for raw, want := range map[string]Lifeline{
		"fiftyFifty":     LifelineFiftyFifty,
		"switch":         LifelineSwitchQuestion,
		"switchQuestion": LifelineSwitchQuestion,
		"double":         LifelineDoubleDip,
	} {
		got, err := ParseLifeline(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLifeline(%q)=%q,%v want %q", raw, got, err, want)
		}
	}
	if _, err := ParseLifeline("callMom"); !errors.Is(err, ErrUnknownLifeline) {
		t.Fatalf("expected unknown lifeline error, got %v", err)
	}
}

func TestNewQuizResultProgress(t *testing.T) {
	r := NewQuizResult(7, 6, 15, OutcomeWalkedAway, 2000, time.Time{})
	if r.Progress != 0.4 {
		t.Fatalf("expected progress 0.4, got %v", r.Progress)
	}
	if z := NewQuizResult(7, 0, 0, OutcomeLost, 0, time.Time{}); z.Progress != 0 {
		t.Fatalf("expected zero progress for empty total")
	}
}
