package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockProvider is a scripted translation backend for tests. It records
// every call and returns either a scripted error or a deterministic
// pseudo-translation of the input.
type MockProvider struct {
	mu sync.Mutex

	// Translations maps input text to a fixed output.
	Translations map[string]string
	// Errors maps input text to a scripted error.
	Errors map[string]error
	// FailuresRemaining, when positive, fails that many calls before
	// succeeding. Used to exercise retry paths.
	FailuresRemaining int
	// FailWith is the error returned while FailuresRemaining is positive.
	FailWith error

	Calls []string
}

// NewMockProvider creates an empty scripted provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: make(map[string]string),
		Errors:       make(map[string]error),
	}
}

// Translate returns the scripted result for text.
func (m *MockProvider) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, text)

	if m.FailuresRemaining > 0 {
		m.FailuresRemaining--
		if m.FailWith != nil {
			return "", m.FailWith
		}
		return "", fmt.Errorf("scripted failure")
	}
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if out, ok := m.Translations[text]; ok {
		return out, nil
	}
	return "译:" + text, nil
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return "mock"
}

// CallCount returns how many times text was translated. With an empty
// string it returns the total number of calls.
func (m *MockProvider) CallCount(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if text == "" {
		return len(m.Calls)
	}
	n := 0
	for _, call := range m.Calls {
		if strings.Contains(call, text) {
			n++
		}
	}
	return n
}
