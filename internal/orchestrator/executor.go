package orchestrator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/llm"
	"github.com/parley-ai/parley/internal/observability"
	"github.com/parley-ai/parley/internal/session"
	"github.com/parley-ai/parley/internal/strategy"
)

// fallbackUtterance is the safe reply used when the executor cannot
// produce one: role-neutral, escalation-free, and true for any stage.
const fallbackUtterance = "Thank you for your time today. We would like to confirm the status of your account with you. When would be a convenient time to continue this conversation?"

// Executor turns the final strategy and the critic's micro-edits into
// the agent's next utterance. Implementations own their fallback policy:
// Respond never fails, the pipeline always produces a reply.
type Executor interface {
	Respond(ctx context.Context, s *session.Session, card *strategy.Artifact, edits decision.MicroEdits) string
}

// LLMExecutor is the inference-backed Executor. It runs warmer than the
// critic and strategist so replies read like a person, not a template.
type LLMExecutor struct {
	provider    llm.Provider
	model       string
	window      int
	temperature float64
	logger      *slog.Logger
}

// NewLLMExecutor creates an executor backed by the given provider.
func NewLLMExecutor(provider llm.Provider, model string, opts ...RoleOption) *LLMExecutor {
	cfg := newRoleConfig(opts...)
	return &LLMExecutor{
		provider:    provider,
		model:       model,
		window:      cfg.window,
		temperature: 0.2,
		logger:      cfg.logger,
	}
}

// Respond runs one executor call and returns the agent's utterance.
func (e *LLMExecutor) Respond(ctx context.Context, s *session.Session, card *strategy.Artifact, edits decision.MicroEdits) string {
	log := observability.NewTracedLogger(e.logger.Handler(), s.CustomerID, "executor")

	payload := buildPayload(s, e.window)
	payload.Strategy = card
	normalized := edits.Normalize()
	payload.MicroEdits = &normalized

	req := llm.NewCompletionRequest(e.model, []llm.Message{
		llm.NewSystemMessage(executorInstruction),
		llm.NewUserMessage(payload.encode()),
	}, llm.WithTemperature(e.temperature))

	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		log.Warn(ctx, "executor call failed, using fallback utterance",
			"provider", e.provider.Name(), "error", err)
		return fallbackUtterance
	}

	reply := strings.TrimSpace(resp.Message.Content)
	if reply == "" {
		log.Warn(ctx, "executor returned empty reply, using fallback utterance")
		return fallbackUtterance
	}

	return reply
}
