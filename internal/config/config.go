// Package config loads the Parley configuration: provider credentials,
// logging, the dialogue window, and the profile seed path. Files are
// YAML with ${ENV_VAR} interpolation so credentials stay out of the
// file itself.
package config

import (
	"os"
	"path/filepath"

	"github.com/parley-ai/parley/internal/llm"
)

// Config is the root configuration structure.
type Config struct {
	LLM      llm.Config     `mapstructure:"llm" yaml:"llm"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Dialogue DialogueConfig `mapstructure:"dialogue" yaml:"dialogue"`
	Profiles ProfilesConfig `mapstructure:"profiles" yaml:"profiles"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// Format is json or text
	Format string `mapstructure:"format" yaml:"format"`
}

// DialogueConfig controls the transcript window sent to the model.
type DialogueConfig struct {
	Window int `mapstructure:"window" yaml:"window"`
}

// ProfilesConfig points at the customer profile seed file.
type ProfilesConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DefaultHomeDir returns the Parley home directory, honoring PARLEY_HOME.
func DefaultHomeDir() string {
	if home := os.Getenv("PARLEY_HOME"); home != "" {
		return home
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".parley"
	}
	return filepath.Join(userHome, ".parley")
}

// DefaultConfigPath returns the config file path inside a home directory.
func DefaultConfigPath(homeDir string) string {
	return filepath.Join(homeDir, "config.yaml")
}
