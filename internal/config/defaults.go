package config

import (
	"github.com/parley-ai/parley/internal/llm"
)

// DefaultConfig returns the configuration used when no file exists: the
// mock provider, text logs at info, and the standard dialogue window.
// It boots without credentials so `parley chat` works out of the box;
// real providers come from a config file with ${ENV_VAR} credentials.
func DefaultConfig() *Config {
	return &Config{
		LLM: llm.Config{
			DefaultProvider: "mock",
			Providers: map[string]llm.ProviderConfig{
				"mock": {
					Type: llm.ProviderMock,
				},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Dialogue: DialogueConfig{
			Window: 12,
		},
		Profiles: ProfilesConfig{},
	}
}
