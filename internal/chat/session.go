package chat

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/diogo/repochat/internal/api"
	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/state"
)

// Session binds a conversation to the backend and the selected repository
type Session struct {
	backend   api.Backend
	selection *state.Selection
	conv      *Conversation
}

// NewSession creates a chat session for the current selection. It returns
// ErrNoIdentifier when no repository has been selected.
func NewSession(backend api.Backend, sel *state.Selection) (*Session, error) {
	if sel == nil || !sel.Snapshot().HasID {
		return nil, apierrors.ErrNoIdentifier
	}
	return &Session{
		backend:   backend,
		selection: sel,
		conv:      NewConversation(),
	}, nil
}

// Conversation returns the session's message log
func (s *Session) Conversation() *Conversation {
	return s.conv
}

// RepoID returns the identifier prompts are sent with
func (s *Session) RepoID() string {
	return s.selection.ID.Get()
}

// Commits returns the commit list of the selected project
func (s *Session) Commits() []models.Commit {
	return s.selection.Commits.Get()
}

// WatchCommits subscribes to changes of the selected project's commits.
// Call stop to end the subscription; it closes the channel.
func (s *Session) WatchCommits() (updates <-chan []models.Commit, stop func()) {
	return s.selection.Commits.Subscribe()
}

// Begin appends the user message and a placeholder; see Conversation.Begin
func (s *Session) Begin(text string) (Pending, error) {
	return s.conv.Begin(text)
}

// Prompt sends a begun message to the backend and settles its placeholder.
// On failure the placeholder is removed and the error is logged and returned.
func (s *Session) Prompt(ctx context.Context, p Pending) (models.Message, error) {
	repoID := s.RepoID()
	reply, err := s.backend.Prompt(ctx, repoID, p.Prompt)
	if err != nil {
		s.conv.Fail(p.ID)
		log.Error().Err(err).Str("repo_id", repoID).Msg("Prompt failed")
		return models.Message{}, err
	}

	msg, ok := s.conv.Resolve(p.ID, reply)
	if !ok {
		log.Warn().Str("id", p.ID).Msg("Reply arrived for unknown placeholder")
		return models.Message{}, apierrors.ErrInvalidResponse
	}
	log.Debug().Str("repo_id", repoID).Int("length", len(reply)).Msg("Prompt answered")
	return msg, nil
}

// Send begins a message and waits for the reply
func (s *Session) Send(ctx context.Context, text string) (models.Message, error) {
	p, err := s.Begin(text)
	if err != nil {
		return models.Message{}, err
	}
	return s.Prompt(ctx, p)
}
