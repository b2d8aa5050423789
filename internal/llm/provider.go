package llm

import (
	"context"
)

// Provider defines the interface that all LLM providers must implement.
// It provides a unified abstraction for the inference services the
// negotiation pipeline talks to (OpenAI, Baidu qianfan, local mocks).
// All calls are blocking round-trips; the turn pipeline never streams.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "qianfan", "mock")
	Name() string

	// Complete sends a completion request and returns the full response.
	// This is a blocking call that waits for the entire response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health checks connectivity to the provider with a minimal request.
	Health(ctx context.Context) error
}
