package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/parley-ai/parley/internal/llm"
)

// OpenAIProvider implements llm.Provider for OpenAI and any endpoint that
// speaks the OpenAI wire protocol (Baidu qianfan, self-hosted gateways).
type OpenAIProvider struct {
	client *openai.LLM
	config llm.ProviderConfig
	name   string
}

// NewOpenAIProvider creates a provider against the OpenAI API.
func NewOpenAIProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	return newCompatibleProvider("openai", "OPENAI_API_KEY", cfg)
}

// NewQianfanProvider creates a provider against Baidu's qianfan endpoint.
// Qianfan exposes ERNIE models behind an OpenAI-compatible API, so the
// same client is used with a different base URL.
func NewQianfanProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	return newCompatibleProvider("qianfan", "QIANFAN_API_KEY", cfg)
}

// NewCustomProvider creates a provider against an operator-supplied
// OpenAI-compatible base URL.
func NewCustomProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	return newCompatibleProvider("custom", "PARLEY_LLM_API_KEY", cfg)
}

func newCompatibleProvider(name, keyEnvVar string, cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(keyEnvVar)
	}

	if apiKey == "" {
		return nil, llm.NewAuthError(name, nil)
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}

	if cfg.DefaultModel != "" {
		opts = append(opts, openai.WithModel(cfg.DefaultModel))
	}

	if baseURL := cfg.GetBaseURL(); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError(name, err)
	}

	return &OpenAIProvider{
		client: client,
		config: cfg,
		name:   name,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Complete sends a completion request
func (p *OpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	messages := toSchemaMessages(req.Messages)
	callOpts := buildCallOptions(req)

	resp, err := p.client.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return nil, llm.TranslateError(p.name, err)
	}

	return fromLangchainResponse(resp, req.Model), nil
}

// Health checks the provider with a one-token completion.
func (p *OpenAIProvider) Health(ctx context.Context) error {
	req := llm.CompletionRequest{
		Model: p.config.DefaultModel,
		Messages: []llm.Message{
			llm.NewUserMessage("ping"),
		},
		MaxTokens: 1,
	}

	_, err := p.Complete(ctx, req)
	return err
}
