package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/parley/internal/llm"
	"github.com/parley-ai/parley/internal/types"
)

func assertCode(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	var perr *types.ParleyError
	require.True(t, errors.As(err, &perr), "expected ParleyError, got %v", err)
	assert.Equal(t, code, perr.Code)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfigFile(t, `
llm:
  default_provider: qianfan
  providers:
    qianfan:
      type: qianfan
      api_key: test-key
      default_model: ernie-4.5-turbo-32k
logging:
  level: debug
  format: json
dialogue:
  window: 8
profiles:
  path: /tmp/profiles.yaml
`)

	loader := NewLoader(NewValidator())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "qianfan", cfg.LLM.DefaultProvider)
	assert.Equal(t, llm.ProviderQianfan, cfg.LLM.Providers["qianfan"].Type)
	assert.Equal(t, "test-key", cfg.LLM.Providers["qianfan"].APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8, cfg.Dialogue.Window)
	assert.Equal(t, "/tmp/profiles.yaml", cfg.Profiles.Path)
}

func TestLoadInterpolatesEnvVars(t *testing.T) {
	t.Setenv("PARLEY_TEST_API_KEY", "secret-from-env")
	t.Setenv("PARLEY_TEST_MODEL", "gpt-4o-mini")

	path := writeConfigFile(t, `
llm:
  default_provider: openai
  providers:
    openai:
      type: openai
      api_key: ${PARLEY_TEST_API_KEY}
      default_model: ${PARLEY_TEST_MODEL}
`)

	loader := NewLoader(NewValidator())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-from-env", cfg.LLM.Providers["openai"].APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Providers["openai"].DefaultModel)
}

func TestLoadUnsetEnvVarFailsValidation(t *testing.T) {
	// An unset placeholder collapses to empty, and a non-mock provider
	// without a key must not pass validation.
	path := writeConfigFile(t, `
llm:
  default_provider: openai
  providers:
    openai:
      type: openai
      api_key: ${PARLEY_TEST_DEFINITELY_UNSET_KEY}
      default_model: gpt-4o-mini
`)

	loader := NewLoader(NewValidator())
	_, err := loader.Load(path)
	require.Error(t, err)
	assertCode(t, err, types.CONFIG_VALIDATION_FAILED)
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(NewValidator())
	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assertCode(t, err, types.CONFIG_LOAD_FAILED)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "llm: [not: a: mapping\n")

	loader := NewLoader(NewValidator())
	_, err := loader.Load(path)
	require.Error(t, err)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	loader := NewLoader(NewValidator())
	cfg, err := loader.LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.LLM.DefaultProvider)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Providers["mock"].Type)
	assert.Equal(t, 12, cfg.Dialogue.Window)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithDefaultsPrefersFile(t *testing.T) {
	path := writeConfigFile(t, `
llm:
  default_provider: mock
  providers:
    mock:
      type: mock
dialogue:
  window: 4
`)

	loader := NewLoader(NewValidator())
	cfg, err := loader.LoadWithDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Dialogue.Window)
}

func TestValidatorRejections(t *testing.T) {
	base := func() *Config {
		cfg := DefaultConfig()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad logging level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad logging format", func(c *Config) { c.Logging.Format = "xml" }},
		{"negative window", func(c *Config) { c.Dialogue.Window = -1 }},
		{"missing default provider", func(c *Config) { c.LLM.DefaultProvider = "" }},
		{"unknown default provider", func(c *Config) { c.LLM.DefaultProvider = "ghost" }},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := v.Validate(cfg)
			require.Error(t, err)
			assertCode(t, err, types.CONFIG_VALIDATION_FAILED)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		require.Error(t, v.Validate(nil))
	})

	t.Run("defaults pass", func(t *testing.T) {
		require.NoError(t, v.Validate(base()))
	})
}

func TestDefaultHomeDir(t *testing.T) {
	t.Setenv("PARLEY_HOME", "/custom/parley")
	assert.Equal(t, "/custom/parley", DefaultHomeDir())

	t.Setenv("PARLEY_HOME", "")
	home := DefaultHomeDir()
	assert.Contains(t, home, ".parley")
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, "/x/config.yaml", DefaultConfigPath("/x"))
}
