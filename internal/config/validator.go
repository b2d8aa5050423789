package config

import (
	"fmt"

	"github.com/parley-ai/parley/internal/types"
)

// Validator checks a loaded configuration for consistency.
type Validator interface {
	Validate(cfg *Config) error
}

// NewValidator creates the default validator.
func NewValidator() Validator {
	return &defaultValidator{}
}

type defaultValidator struct{}

func (v *defaultValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "config cannot be nil")
	}

	if err := cfg.LLM.Validate(); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "llm configuration invalid", err)
	}

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid logging level %q, must be one of: debug, info, warn, error", cfg.Logging.Level))
	}

	switch cfg.Logging.Format {
	case "", "json", "text":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid logging format %q, must be json or text", cfg.Logging.Format))
	}

	if cfg.Dialogue.Window < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("dialogue window cannot be negative, got %d", cfg.Dialogue.Window))
	}

	return nil
}
