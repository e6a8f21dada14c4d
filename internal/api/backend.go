package api

import (
	"context"

	"github.com/diogo/repochat/internal/models"
)

// Backend is the set of remote operations the flows depend on
type Backend interface {
	ListRepos(ctx context.Context) ([]models.SelectionOption, error)
	RegisterRepo(ctx context.Context, repoURL string) (string, error)
	ValidateProject(ctx context.Context, option models.SelectionOption) error
	Prompt(ctx context.Context, repoID, prompt string) (string, error)
}

var _ Backend = (*Client)(nil)
