package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("project not found"), http.StatusNotFound},
		{"forbidden", Forbidden("not your project"), http.StatusForbidden},
		{"unauthenticated", Unauthenticated("invalid token"), http.StatusUnauthorized},
		{"conflict", Conflict("already applied"), http.StatusBadRequest},
		{"invalid input", InvalidInput("title is required"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("loading project: %w", NotFound("gone")), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"nil-ish unknown", fmt.Errorf("db timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestConstructorsWrapSentinels(t *testing.T) {
	if !errors.Is(NotFound("user %s", "abc"), ErrNotFound) {
		t.Error("NotFound should wrap ErrNotFound")
	}
	if !errors.Is(Conflict("dup"), ErrConflict) {
		t.Error("Conflict should wrap ErrConflict")
	}
	got := NotFound("user %s not found", "abc").Error()
	want := "user abc not found: not found"
	if got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}
