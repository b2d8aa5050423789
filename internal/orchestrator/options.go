package orchestrator

import (
	"log/slog"
)

// roleConfig carries the knobs shared by the three LLM-backed roles.
type roleConfig struct {
	window int
	logger *slog.Logger
}

// RoleOption configures an LLM-backed decision role.
type RoleOption func(*roleConfig)

// WithDialogueWindow sets how many transcript entries a role sends to
// the model. Non-positive values keep the default.
func WithDialogueWindow(n int) RoleOption {
	return func(c *roleConfig) {
		if n > 0 {
			c.window = n
		}
	}
}

// WithRoleLogger sets the logger used by a role.
func WithRoleLogger(logger *slog.Logger) RoleOption {
	return func(c *roleConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newRoleConfig(opts ...RoleOption) roleConfig {
	cfg := roleConfig{
		window: defaultDialogueWindow,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
