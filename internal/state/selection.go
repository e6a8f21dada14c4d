package state

import "github.com/diogo/repochat/internal/models"

// Selection is the outcome of the selection screen: the identifier of the
// chosen repository and, for listed projects, its commits.
type Selection struct {
	ID      *Store[string]
	Commits *Store[[]models.Commit]
}

// Snapshot is an immutable view of a Selection
type Snapshot struct {
	ID      string
	HasID   bool
	Commits []models.Commit
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{
		ID:      NewStore("", nil),
		Commits: NewStore[[]models.Commit](nil, models.CloneCommits),
	}
}

// Snapshot returns the current identifier and commits
func (s *Selection) Snapshot() Snapshot {
	id := s.ID.Get()
	return Snapshot{
		ID:      id,
		HasID:   s.ID.IsSet() && id != "",
		Commits: s.Commits.Get(),
	}
}
