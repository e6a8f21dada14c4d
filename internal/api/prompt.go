package api

import (
	"bytes"
	"context"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/repochat/internal/errors"
)

type promptRequest struct {
	RepoID string `json:"repoid"`
	Prompt string `json:"prompt"`
}

// Prompt sends a prompt about repoID and returns the reply text
func (c *Client) Prompt(ctx context.Context, repoID, prompt string) (string, error) {
	if prompt == "" {
		return "", apierrors.ErrEmptyInput
	}

	body, err := c.do(ctx, "prompt", http.MethodPost, EndpointPrompt, promptRequest{RepoID: repoID, Prompt: prompt})
	if err != nil {
		return "", err
	}
	return parsePromptReply(body), nil
}

// parsePromptReply extracts reply text. The backend may answer with plain text,
// a JSON string, or an object carrying the text in a well-known field.
func parsePromptReply(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if !gjson.ValidBytes(trimmed) {
		return string(body)
	}

	parsed := gjson.ParseBytes(trimmed)
	switch {
	case parsed.Type == gjson.String:
		return parsed.String()
	case parsed.IsObject():
		for _, path := range promptReplyPaths {
			if v := parsed.Get(path); v.Type == gjson.String {
				return v.String()
			}
		}
	}
	return string(trimmed)
}
