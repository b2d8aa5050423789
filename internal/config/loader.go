package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/parley-ai/parley/internal/types"
)

// Loader handles loading configuration from files.
type Loader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// NewLoader creates a Loader backed by Viper.
func NewLoader(validator Validator) Loader {
	return &viperLoader{validator: validator}
}

type viperLoader struct {
	validator Validator
}

// Load reads and validates the configuration file at path.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	interpolateConfig(&cfg)

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads the file at path, or returns the default
// configuration when no file exists there.
func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		interpolateConfig(cfg)
		if err := l.validator.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return l.Load(path)
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateConfig replaces ${VAR} placeholders in every string field
// that may carry one, so credentials live in the environment rather
// than the file.
func interpolateConfig(cfg *Config) {
	cfg.LLM.DefaultProvider = interpolateString(cfg.LLM.DefaultProvider)

	for name, provider := range cfg.LLM.Providers {
		provider.APIKey = interpolateString(provider.APIKey)
		provider.BaseURL = interpolateString(provider.BaseURL)
		provider.DefaultModel = interpolateString(provider.DefaultModel)
		cfg.LLM.Providers[name] = provider
	}

	cfg.Logging.Level = interpolateString(cfg.Logging.Level)
	cfg.Logging.Format = interpolateString(cfg.Logging.Format)
	cfg.Profiles.Path = interpolateString(cfg.Profiles.Path)
}

// interpolateString replaces ${VAR} with the environment value. An unset
// placeholder collapses to the empty string so validation catches a
// missing credential instead of a literal "${KEY}" reaching a provider.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}
