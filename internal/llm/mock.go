package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a scriptable decision client for tests and degraded-mode
// experiments.
type MockClient struct {
	err       error
	responses []string
	// Calls records every prompt pair sent, in order.
	Calls []MockCall
	mu    sync.Mutex
	next  int
}

// MockCall captures one Complete invocation.
type MockCall struct {
	SystemPrompt string
	UserPrompt   string
}

// NewMockClient creates a mock that replays the given responses in order,
// repeating the last one once exhausted.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{responses: responses}
}

// Fail configures the mock to return err on every call.
func (m *MockClient) Fail(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Complete records the call and returns the next scripted response.
func (m *MockClient) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt})

	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock client has no scripted responses")
	}

	resp := m.responses[m.next]
	if m.next < len(m.responses)-1 {
		m.next++
	}
	return resp, nil
}

// CallCount returns how many completions were requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
