// Package api provides the HTTP client for the repository/AI backend.
package api

// Backend endpoints, relative to the configured base URL.
const (
	EndpointListRepos    = "/api/repos/repos"
	EndpointRegisterRepo = "/api/repos/repo"
	EndpointPrompt       = "/api/ai/prompt"
)

// GJSON paths for extracting values from backend responses.
const (
	// Repo list: either a bare array or wrapped in one of these keys
	PathReposWrapped = "repos"
	PathReposData    = "data"

	// Fields of a repo entry
	PathRepoID      = "id"
	PathRepoName    = "name"
	PathRepoValue   = "value"
	PathRepoCommits = "commits"

	// Fields of a commit entry
	PathCommitSHA     = "sha"
	PathCommitMessage = "message"

	// Register response
	PathRegisteredID = "id"
)

// promptReplyPaths are tried in order when the prompt reply is a JSON object.
var promptReplyPaths = []string{"response", "reply", "text", "message", "content"}
