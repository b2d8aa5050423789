package llm

import (
	"fmt"
	"strings"

	"github.com/parley-ai/parley/internal/types"
)

// ProviderType represents the type of LLM provider.
type ProviderType string

const (
	// ProviderOpenAI talks to the OpenAI API.
	ProviderOpenAI ProviderType = "openai"
	// ProviderQianfan talks to Baidu's qianfan endpoint, which speaks the
	// OpenAI wire protocol at a different base URL.
	ProviderQianfan ProviderType = "qianfan"
	// ProviderCustom is any OpenAI-compatible endpoint the operator points at.
	ProviderCustom ProviderType = "custom"
	// ProviderMock replays scripted responses; used in tests and dry runs.
	ProviderMock ProviderType = "mock"
)

// Config contains the root LLM provider configuration. It specifies which
// provider to use by default and provides detailed configuration for each
// available provider.
type Config struct {
	DefaultProvider string                    `mapstructure:"default_provider" yaml:"default_provider"`
	Providers       map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// Validate ensures that the default provider exists in the providers map
// and that all provider configurations are valid.
func (c *Config) Validate() error {
	if c.DefaultProvider == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "default_provider cannot be empty")
	}

	if len(c.Providers) == 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "providers map cannot be empty")
	}

	if _, exists := c.Providers[c.DefaultProvider]; !exists {
		return types.NewError(
			types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("default_provider '%s' not found in providers map", c.DefaultProvider),
		)
	}

	for name, provider := range c.Providers {
		if err := provider.Validate(); err != nil {
			return types.WrapError(
				types.CONFIG_VALIDATION_FAILED,
				fmt.Sprintf("provider '%s' validation failed", name),
				err,
			)
		}
	}

	return nil
}

// ProviderConfig contains configuration for a specific LLM provider:
// authentication credentials, API endpoint, default model, and
// provider-specific options.
type ProviderConfig struct {
	Type         ProviderType   `mapstructure:"type" yaml:"type"`
	APIKey       string         `mapstructure:"api_key" yaml:"api_key"`
	BaseURL      string         `mapstructure:"base_url" yaml:"base_url"`
	DefaultModel string         `mapstructure:"default_model" yaml:"default_model"`
	Options      map[string]any `mapstructure:"options" yaml:"options"`
}

// Validate ensures all required fields are present for the provider type.
func (p *ProviderConfig) Validate() error {
	if p.Type == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "provider type cannot be empty")
	}

	validTypes := map[ProviderType]bool{
		ProviderOpenAI:  true,
		ProviderQianfan: true,
		ProviderCustom:  true,
		ProviderMock:    true,
	}
	if !validTypes[p.Type] {
		return types.NewError(
			types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid provider type '%s', must be one of: openai, qianfan, custom, mock", p.Type),
		)
	}

	// The mock provider needs no credentials or model.
	if p.Type == ProviderMock {
		return nil
	}

	if p.APIKey == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "api_key cannot be empty")
	}

	if p.DefaultModel == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "default_model cannot be empty")
	}

	if p.Type == ProviderCustom && p.BaseURL == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "custom provider requires base_url")
	}

	return nil
}

// GetBaseURL returns the base URL for a provider, with defaults for known
// providers.
func (p *ProviderConfig) GetBaseURL() string {
	if p.BaseURL != "" {
		return p.BaseURL
	}

	switch p.Type {
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderQianfan:
		return "https://qianfan.baidubce.com/v2"
	default:
		return ""
	}
}

// NormalizeProviderName normalizes provider names to lowercase for
// consistent lookup.
func NormalizeProviderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
