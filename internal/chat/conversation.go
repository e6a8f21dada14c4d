// Package chat implements the chat flow: an append-only message log where each
// send adds the user's message immediately and a pending assistant entry that
// is later replaced by the reply or dropped.
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
)

// Pending describes a send that has been begun but not yet resolved
type Pending struct {
	// ID is the id of the assistant placeholder
	ID string
	// UserID is the id of the user message that was appended
	UserID string
	// Prompt is the text sent, exactly as typed
	Prompt string
}

// Conversation is the message log of a single chat screen.
type Conversation struct {
	mu       sync.RWMutex
	messages []models.Message
	pending  string

	now   func() time.Time
	newID func() string
}

// NewConversation creates an empty conversation
func NewConversation() *Conversation {
	return &Conversation{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Begin appends text as a user message plus a pending assistant placeholder.
// Blank text returns ErrEmptyInput and a send already in flight returns ErrBusy;
// in both cases the log is unchanged.
func (c *Conversation) Begin(text string) (Pending, error) {
	if strings.TrimSpace(text) == "" {
		return Pending{}, apierrors.ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != "" {
		return Pending{}, apierrors.ErrBusy
	}

	now := c.now()
	user := models.Message{
		ID:        c.newID(),
		Content:   text,
		Sender:    models.SenderUser,
		Timestamp: now,
	}
	placeholder := models.Message{
		ID:        c.newID(),
		Sender:    models.SenderAssistant,
		Timestamp: now,
		Pending:   true,
	}

	c.messages = append(c.messages, user, placeholder)
	c.pending = placeholder.ID

	return Pending{ID: placeholder.ID, UserID: user.ID, Prompt: text}, nil
}

// Resolve replaces the placeholder id with the assistant's reply.
// It returns false if id is not the outstanding placeholder.
func (c *Conversation) Resolve(id, reply string) (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" || c.pending != id {
		return models.Message{}, false
	}
	c.pending = ""

	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Content = reply
			c.messages[i].Timestamp = c.now()
			c.messages[i].Pending = false
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}

// Fail removes the placeholder id. The user message stays in the log and no
// error entry is added.
func (c *Conversation) Fail(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" || c.pending != id {
		return false
	}
	c.pending = ""

	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Messages returns a copy of the log, including any pending placeholder
func (c *Conversation) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Settled returns the log without pending placeholders
func (c *Conversation) Settled() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Message, 0, len(c.messages))
	for _, m := range c.messages {
		if !m.Pending {
			out = append(out, m)
		}
	}
	return out
}

// Sending reports whether a send is outstanding
func (c *Conversation) Sending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending != ""
}

// LastReply returns the most recent settled assistant message
func (c *Conversation) LastReply() (models.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if m.Sender == models.SenderAssistant && !m.Pending {
			return m, true
		}
	}
	return models.Message{}, false
}

// Len returns the number of entries, including any pending placeholder
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}
