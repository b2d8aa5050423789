package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/parley-ai/parley/internal/llm"
)

// MockCall represents a recorded call to the mock provider
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements llm.Provider for testing. It replays scripted
// responses in order (cycling when exhausted) and records every request
// it receives.
type MockProvider struct {
	mu            sync.RWMutex
	responses     []string
	responseIndex int
	calls         []MockCall
	failWith      error
}

// NewMockProvider creates a new mock provider with scripted responses.
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{
		responses:     responses,
		responseIndex: 0,
		calls:         make([]MockCall, 0),
	}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete records the request and replays the next scripted response.
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, MockCall{Request: req})

	if p.failWith != nil {
		err := p.failWith
		p.mu.Unlock()
		return nil, err
	}

	if len(p.responses) == 0 {
		p.mu.Unlock()
		return nil, llm.NewProviderError("mock", fmt.Errorf("no responses configured"))
	}

	response := p.responses[p.responseIndex%len(p.responses)]
	p.responseIndex++
	p.mu.Unlock()

	return &llm.CompletionResponse{
		ID:    uuid.New().String(),
		Model: req.Model,
		Message: llm.Message{
			Role:    llm.RoleAssistant,
			Content: response,
		},
		FinishReason: llm.FinishReasonStop,
		Usage: llm.CompletionTokenUsage{
			PromptTokens:     10,
			CompletionTokens: len(response) / 4,
			TotalTokens:      10 + len(response)/4,
		},
	}, nil
}

// Health reports healthy unless a failure has been injected.
func (p *MockProvider) Health(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failWith
}

// GetCalls returns all recorded calls (thread-safe)
func (p *MockProvider) GetCalls() []MockCall {
	p.mu.RLock()
	defer p.mu.RUnlock()

	calls := make([]MockCall, len(p.calls))
	copy(calls, p.calls)
	return calls
}

// Reset clears recorded calls, the response cursor, and any injected failure.
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = make([]MockCall, 0)
	p.responseIndex = 0
	p.failWith = nil
}

// SetResponses replaces all scripted responses and rewinds the cursor.
func (p *MockProvider) SetResponses(responses []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.responses = responses
	p.responseIndex = 0
}

// SetFailure makes every subsequent Complete call return err.
// Pass nil to restore normal operation.
func (p *MockProvider) SetFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failWith = err
}
