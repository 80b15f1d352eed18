// Package llm defines the outbound interface to large-language-model
// providers and a name-keyed registry for selecting one per agent.
//
// Providers are external collaborators; the registry ships with placeholder
// implementations that echo a canned completion so the rest of the system can
// be exercised end to end without network credentials. A real deployment
// registers its own Provider implementations at startup.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownProvider is returned when Manager.Get is asked for a name that
// was never registered.
var ErrUnknownProvider = errors.New("unknown llm provider")

// Provider generates a completion for a fully-assembled prompt. Any failure
// is retryable by the caller; it must never be treated as fatal to the
// process.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Manager is a concurrency-safe registry of named providers.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewManager returns a Manager pre-populated with the stock provider names.
func NewManager() *Manager {
	m := &Manager{providers: make(map[string]Provider)}
	for _, name := range []string{"openai", "llama", "vllm", "deepseek", "groq"} {
		m.Register(name, stubProvider{name: name})
	}
	return m
}

// Register adds or replaces the provider for name (case-insensitive).
func (m *Manager) Register(name string, p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[strings.ToLower(name)] = p
}

// Get returns the provider registered under name, or ErrUnknownProvider.
func (m *Manager) Get(name string) (Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// stubProvider is the stand-in used until a real client is registered.
type stubProvider struct {
	name string
}

// Generate returns a canned completion identifying the provider.
func (s stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("[%s] no live provider configured", s.name), nil
}
