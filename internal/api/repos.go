package api

import (
	"context"
	"fmt"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
)

type registerRequest struct {
	URL string `json:"url"`
}

// ListRepos fetches the projects the backend offers for selection
func (c *Client) ListRepos(ctx context.Context) ([]models.SelectionOption, error) {
	body, err := c.do(ctx, "list repos", http.MethodGet, EndpointListRepos, nil)
	if err != nil {
		return nil, err
	}
	return parseRepos(body)
}

// RegisterRepo asks the backend to accept a repository URL and returns its id
func (c *Client) RegisterRepo(ctx context.Context, repoURL string) (string, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return "", apierrors.ErrEmptyInput
	}

	body, err := c.do(ctx, "register repo", http.MethodPost, EndpointRegisterRepo, registerRequest{URL: repoURL})
	if err != nil {
		return "", err
	}
	return parseRegisteredID(body)
}

// ValidateProject checks that the backend still lists option under the same
// id. The list is fetched again; a project that disappeared or changed id is
// rejected.
func (c *Client) ValidateProject(ctx context.Context, option models.SelectionOption) error {
	if option.Value == "" || option.ID == "" {
		return fmt.Errorf("%w: project has no value or id", apierrors.ErrRejected)
	}

	current, err := c.ListRepos(ctx)
	if err != nil {
		return err
	}
	listed, ok := models.FindOption(current, option.Value)
	if !ok {
		log.Debug().Str("project", option.Value).Msg("Project no longer listed")
		return fmt.Errorf("%w: project %q is no longer listed", apierrors.ErrRejected, option.Value)
	}
	if listed.ID != option.ID {
		log.Debug().Str("project", option.Value).Str("was", option.ID).Str("now", listed.ID).Msg("Project id changed")
		return fmt.Errorf("%w: project %q changed id", apierrors.ErrRejected, option.Value)
	}
	return nil
}

// parseRepos parses the repo list; a bare array or {"repos": [...]} / {"data": [...]}
func parseRepos(body []byte) ([]models.SelectionOption, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("repo list is not valid JSON", "")
	}

	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		switch {
		case list.Get(PathReposWrapped).IsArray():
			list = list.Get(PathReposWrapped)
		case list.Get(PathReposData).IsArray():
			list = list.Get(PathReposData)
		default:
			return nil, apierrors.NewParseError("repo list is not an array", PathReposWrapped)
		}
	}

	options := []models.SelectionOption{}
	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}

		opt := models.SelectionOption{
			ID:      item.Get(PathRepoID).String(),
			Name:    item.Get(PathRepoName).String(),
			Value:   item.Get(PathRepoValue).String(),
			Commits: []models.Commit{},
		}
		if opt.Value == "" {
			opt.Value = opt.ID
		}
		if opt.Value == "" {
			return true // Nothing to select it by
		}

		item.Get(PathRepoCommits).ForEach(func(_, commit gjson.Result) bool {
			opt.Commits = append(opt.Commits, models.Commit{
				SHA:     commit.Get(PathCommitSHA).String(),
				Message: commit.Get(PathCommitMessage).String(),
			})
			return true
		})

		options = append(options, opt)
		return true
	})

	return options, nil
}

// parseRegisteredID extracts the id from a register response
func parseRegisteredID(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("register response is not valid JSON", "")
	}

	id := strings.TrimSpace(gjson.GetBytes(body, PathRegisteredID).String())
	if id == "" {
		return "", fmt.Errorf("%w: no id in response", apierrors.ErrRejected)
	}
	return id, nil
}
