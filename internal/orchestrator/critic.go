package orchestrator

import (
	"context"
	"log/slog"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/llm"
	"github.com/parley-ai/parley/internal/observability"
	"github.com/parley-ai/parley/internal/session"
)

// Critic judges whether the active strategy still fits the debtor's
// behavior. Implementations own their fallback policy: Decide never
// fails, it degrades.
type Critic interface {
	Decide(ctx context.Context, s *session.Session) *decision.CriticResult
}

// LLMCritic is the inference-backed Critic. Transport or parse failure
// errs toward re-planning: the fallback verdict is ESCALATE_TO_META with
// an empty patch, never silent continuation.
type LLMCritic struct {
	provider    llm.Provider
	model       string
	window      int
	temperature float64
	logger      *slog.Logger
}

// NewLLMCritic creates a critic backed by the given provider.
func NewLLMCritic(provider llm.Provider, model string, opts ...RoleOption) *LLMCritic {
	cfg := newRoleConfig(opts...)
	return &LLMCritic{
		provider:    provider,
		model:       model,
		window:      cfg.window,
		temperature: 0.0,
		logger:      cfg.logger,
	}
}

// Decide runs one critic call over the session.
func (c *LLMCritic) Decide(ctx context.Context, s *session.Session) *decision.CriticResult {
	log := observability.NewTracedLogger(c.logger.Handler(), s.CustomerID, "critic")

	req := llm.NewCompletionRequest(c.model, []llm.Message{
		llm.NewSystemMessage(criticInstruction),
		llm.NewUserMessage(buildPayload(s, c.window).encode()),
	}, llm.WithTemperature(c.temperature))

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		log.Warn(ctx, "critic call failed, falling back to escalation",
			"provider", c.provider.Name(), "error", err)
		return fallbackCriticResult("critic_failed_call: " + err.Error())
	}

	doc, err := llm.ExtractJSON(resp.Message.Content)
	if err != nil {
		log.Warn(ctx, "critic response carried no JSON, falling back to escalation",
			"error", err)
		return fallbackCriticResult("critic_failed_parse: " + err.Error())
	}

	result, err := decision.ParseCriticResult(doc)
	if err != nil {
		log.Warn(ctx, "critic response failed schema validation, falling back to escalation",
			"error", err)
		return fallbackCriticResult("critic_failed_parse: " + err.Error())
	}

	result.MicroEdits = result.MicroEdits.Normalize()
	return result
}

// fallbackCriticResult is the deterministic verdict used when the critic
// cannot produce one: escalate so the strategist re-plans, carry no
// memory patch.
func fallbackCriticResult(reason string) *decision.CriticResult {
	return &decision.CriticResult{
		Decision:       decision.DecisionEscalateToMeta,
		DecisionReason: reason,
		ReasonCodes:    []string{"critic_failed"},
		MicroEdits:     decision.MicroEdits{}.Normalize(),
		MemoryWrite:    map[string]any{},
	}
}
