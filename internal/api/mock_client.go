package api

import (
	"context"
	"sync"

	"github.com/diogo/repochat/internal/models"
)

// MockBackend is a mock implementation of Backend for testing
type MockBackend struct {
	mu sync.Mutex

	// Mock return values
	Options     []models.SelectionOption
	ListErr     error
	RegisterID  string
	RegisterErr error
	ValidateErr error
	Reply       string
	PromptErr   error

	// PromptFunc, when set, overrides Reply/PromptErr
	PromptFunc func(ctx context.Context, repoID, prompt string) (string, error)

	// Call counters/recorders
	ListCalls     int
	RegisterCalls int
	ValidateCalls int
	PromptCalls   int
	LastURL       string
	LastOption    models.SelectionOption
	LastRepoID    string
	LastPrompt    string
}

var _ Backend = (*MockBackend)(nil)

func (m *MockBackend) ListRepos(ctx context.Context) ([]models.SelectionOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Options, nil
}

func (m *MockBackend) RegisterRepo(ctx context.Context, repoURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterCalls++
	m.LastURL = repoURL
	return m.RegisterID, m.RegisterErr
}

func (m *MockBackend) ValidateProject(ctx context.Context, option models.SelectionOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidateCalls++
	m.LastOption = option
	return m.ValidateErr
}

func (m *MockBackend) Prompt(ctx context.Context, repoID, prompt string) (string, error) {
	m.mu.Lock()
	m.PromptCalls++
	m.LastRepoID = repoID
	m.LastPrompt = prompt
	fn := m.PromptFunc
	reply, err := m.Reply, m.PromptErr
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, repoID, prompt)
	}
	return reply, err
}

// Calls returns the total number of backend calls made
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls + m.RegisterCalls + m.ValidateCalls + m.PromptCalls
}
