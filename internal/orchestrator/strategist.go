package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/llm"
	"github.com/parley-ai/parley/internal/observability"
	"github.com/parley-ai/parley/internal/session"
	"github.com/parley-ai/parley/internal/strategy"
)

// Strategist produces a replacement strategy card when the turn escalates.
// Implementations own their fallback policy: Generate never fails, it
// degrades to the validator's default-for-stage card.
type Strategist interface {
	Generate(ctx context.Context, s *session.Session, critic *decision.CriticResult) *strategy.Artifact
}

// LLMStrategist is the inference-backed Strategist.
type LLMStrategist struct {
	provider    llm.Provider
	model       string
	window      int
	temperature float64
	logger      *slog.Logger
}

// NewLLMStrategist creates a strategist backed by the given provider.
func NewLLMStrategist(provider llm.Provider, model string, opts ...RoleOption) *LLMStrategist {
	cfg := newRoleConfig(opts...)
	return &LLMStrategist{
		provider:    provider,
		model:       model,
		window:      cfg.window,
		temperature: 0.0,
		logger:      cfg.logger,
	}
}

// Generate runs one strategist call. The critic's verdict rides along in
// the payload so the new card answers the problem the critic saw.
// Provider output is advisory: the caller force-aligns the card's stage
// regardless of what comes back.
func (g *LLMStrategist) Generate(ctx context.Context, s *session.Session, critic *decision.CriticResult) *strategy.Artifact {
	log := observability.NewTracedLogger(g.logger.Handler(), s.CustomerID, "strategist")

	payload := buildPayload(s, g.window)
	payload.CriticVerdict = critic

	req := llm.NewCompletionRequest(g.model, []llm.Message{
		llm.NewSystemMessage(strategistInstruction),
		llm.NewUserMessage(payload.encode()),
	}, llm.WithTemperature(g.temperature))

	resp, err := g.provider.Complete(ctx, req)
	if err != nil {
		log.Warn(ctx, "strategist call failed, using default card for stage",
			"stage", s.Stage, "provider", g.provider.Name(), "error", err)
		return strategy.DefaultForStage(s.Stage, s.DPD, s.BrokenPromises)
	}

	doc, err := llm.ExtractJSON(resp.Message.Content)
	if err != nil {
		log.Warn(ctx, "strategist response carried no JSON, using default card for stage",
			"stage", s.Stage, "error", err)
		return strategy.DefaultForStage(s.Stage, s.DPD, s.BrokenPromises)
	}

	artifact, err := strategy.ParseArtifact(doc)
	if err != nil {
		log.Warn(ctx, "strategist response failed schema validation, using default card for stage",
			"stage", s.Stage, "error", err)
		return strategy.DefaultForStage(s.Stage, s.DPD, s.BrokenPromises)
	}

	// Generated ids get a unique suffix so telemetry can tell successive
	// cards apart even when the model reuses a name.
	artifact.StrategyID = fmt.Sprintf("%s_%s", artifact.StrategyID, uuid.New().String()[:8])

	return artifact
}
