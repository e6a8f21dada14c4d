package commands

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apierrors "github.com/diogo/repochat/internal/errors"
)

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage_APIError(t *testing.T) {
	e := apierrors.NewAPIErrorWithBody(500, "/api/ai/prompt", "failure", "detailed body")
	out := formatErrorMessage(e, "Failed")
	for _, want := range []string{"Failed", "HTTP Status: 500", "Endpoint: /api/ai/prompt", "detailed body"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in message, got: %s", want, out)
		}
	}
}

func TestFormatErrorMessage_Hints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected", apierrors.NewAPIError(404, "/api/repos/repo", "not found"), "repochat repos"},
		{"rejected sentinel", fmt.Errorf("wrapped: %w", apierrors.ErrRejected), "refused"},
		{"network", apierrors.NewNetworkError("list repos", errors.New("refused")), "--api-url"},
		{"unknown project", apierrors.ErrUnknownProject, "repochat repos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Failed")
			if !strings.Contains(out, "Hint") || !strings.Contains(out, tt.want) {
				t.Errorf("expected hint containing %q, got: %s", tt.want, out)
			}
		})
	}
}

func TestFormatErrorMessage_PlainError(t *testing.T) {
	out := formatErrorMessage(errors.New("boom"), "Failed")
	if !strings.Contains(out, "Failed: boom") {
		t.Errorf("unexpected message: %s", out)
	}
	if strings.Contains(out, "Hint") {
		t.Errorf("expected no hint for a plain error, got: %s", out)
	}
}
