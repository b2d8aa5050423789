package providers

import (
	"fmt"

	"github.com/parley-ai/parley/internal/llm"
)

// NewProvider creates an LLM provider from its configuration.
func NewProvider(cfg llm.ProviderConfig) (llm.Provider, error) {
	switch cfg.Type {
	case llm.ProviderOpenAI:
		return NewOpenAIProvider(cfg)

	case llm.ProviderQianfan:
		return NewQianfanProvider(cfg)

	case llm.ProviderCustom:
		return NewCustomProvider(cfg)

	case llm.ProviderMock:
		return NewMockProvider(nil), nil

	default:
		return nil, llm.NewInvalidRequestError(fmt.Sprintf("unknown provider type: %s", cfg.Type))
	}
}
