package mock

import "context"

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns an empty string.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	callCount int
}

// NewMockCompleter creates a mock completer.
// The default behavior returns an empty completion, which callers
// treat as an unusable model response.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns the injected completion or an empty string.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt)
	}

	return "", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
