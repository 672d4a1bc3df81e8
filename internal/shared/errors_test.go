package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserSafeMessageKeepsSentinelText(t *testing.T) {
	err := fmt.Errorf("%w: username taken", ErrConflict)
	if got := UserSafeMessage(err); got != "conflict: username taken" {
		t.Fatalf("got %q", got)
	}
}

func TestUserSafeMessageHidesInternals(t *testing.T) {
	err := errors.New("pq: connection refused to 10.0.0.5")
	if got := UserSafeMessage(err); got != "internal error" {
		t.Fatalf("internal detail leaked: %q", got)
	}
}

func TestUserSafeMessageNil(t *testing.T) {
	if got := UserSafeMessage(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
