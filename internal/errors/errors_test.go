package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "/api/repos/repo", "register repo failed")
	require.NotNil(t, err)

	assert.Equal(t, "API error [400] at /api/repos/repo: register repo failed", err.Error())
	assert.Equal(t, "API error at x: y", NewAPIError(0, "x", "y").Error())
}

func TestAPIError_IsRejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"bad request", 400, true},
		{"not found", 404, true},
		{"unprocessable", 422, true},
		{"server error", 500, false},
		{"bad gateway", 502, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewAPIError(tt.status, "e", "m"))
			assert.Equal(t, tt.want, IsRejected(err))
			assert.True(t, IsAPIError(err))
			assert.Equal(t, tt.status, GetHTTPStatus(err))
		})
	}
}

func TestNewAPIErrorWithBody_Truncates(t *testing.T) {
	err := NewAPIErrorWithBody(500, "e", "m", strings.Repeat("x", 2000))
	assert.Len(t, err.Body, 512)
}

func TestNetworkError(t *testing.T) {
	err := NewNetworkErrorWithEndpoint("list repos", "/api/repos/repos", context.DeadlineExceeded)

	assert.Contains(t, err.Error(), "list repos")
	assert.Contains(t, err.Error(), "/api/repos/repos")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsNetworkError(fmt.Errorf("outer: %w", err)))
	assert.False(t, IsRejected(err))
	assert.Equal(t, 0, GetHTTPStatus(err))

	plain := NewNetworkError("prompt", errors.New("connection refused"))
	assert.Equal(t, "network error during prompt: connection refused", plain.Error())
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing id", "id")

	assert.Equal(t, "parse error: missing id (at id)", err.Error())
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.True(t, errors.Is(err, NewParseError("other", "")))
	assert.False(t, errors.Is(err, ErrRejected))
	assert.Equal(t, "parse error: bad", NewParseError("bad", "").Error())
}

func TestSentinels_Distinct(t *testing.T) {
	all := []error{ErrEmptyInput, ErrBusy, ErrNoIdentifier, ErrUnknownProject, ErrRejected, ErrInvalidResponse}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}
