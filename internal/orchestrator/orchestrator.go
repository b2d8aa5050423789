// Package orchestrator runs the turn pipeline of a negotiation: stage
// pre-check, strategy validation, critic verdict, memory merge, stage
// recheck with forced escalation on drift, conditional strategy
// regeneration, and executor reply. The pipeline never aborts; a failed
// step falls back and the remaining steps continue.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/memory"
	"github.com/parley-ai/parley/internal/observability"
	"github.com/parley-ai/parley/internal/session"
	"github.com/parley-ai/parley/internal/stage"
	"github.com/parley-ai/parley/internal/strategy"
)

// Orchestrator sequences one conversational turn over a session. It
// holds the session store by reference and takes the store's per-key
// lock for the whole turn, so turns on one session are serialized while
// distinct sessions proceed concurrently.
type Orchestrator struct {
	store      *session.Store
	critic     Critic
	strategist Strategist
	executor   Executor

	logger *slog.Logger
	tracer trace.Tracer

	turnsTotal        metric.Int64Counter
	forcedEscalations metric.Int64Counter
	regenerations     metric.Int64Counter
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the tracer for per-turn spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithMeter installs turn counters on the given meter.
func WithMeter(meter metric.Meter) Option {
	return func(o *Orchestrator) {
		if meter != nil {
			o.initMetrics(meter)
		}
	}
}

// New creates an Orchestrator over the given store and decision roles.
// Observability defaults to noop implementations.
func New(store *session.Store, critic Critic, strategist Strategist, executor Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      store,
		critic:     critic,
		strategist: strategist,
		executor:   executor,
		logger:     slog.Default(),
		tracer:     tracenoop.NewTracerProvider().Tracer("parley/orchestrator"),
	}
	o.initMetrics(metricnoop.NewMeterProvider().Meter("parley/orchestrator"))

	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) initMetrics(meter metric.Meter) {
	// Counter creation on a conforming meter only fails for malformed
	// names; fall back to the previous instruments if it does.
	if c, err := meter.Int64Counter("parley.turns",
		metric.WithDescription("completed negotiation turns")); err == nil {
		o.turnsTotal = c
	}
	if c, err := meter.Int64Counter("parley.escalations.forced",
		metric.WithDescription("escalations forced by post-merge stage drift")); err == nil {
		o.forcedEscalations = c
	}
	if c, err := meter.Int64Counter("parley.strategy.regenerated",
		metric.WithDescription("strategy cards replaced by the strategist")); err == nil {
		o.regenerations = c
	}
}

// Turn runs the full pipeline for one user utterance and returns the
// updated session. The only error it can return is a missing session;
// provider failures are absorbed by the per-role fallbacks.
func (o *Orchestrator) Turn(ctx context.Context, sessionID, userText string) (*session.Session, error) {
	o.store.Lock(sessionID)
	defer o.store.Unlock(sessionID)

	s, err := o.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.turn", trace.WithAttributes(
		attribute.String("session.customer_id", sessionID),
		attribute.String("session.stage", s.Stage.String()),
	))
	defer span.End()

	// Every record inside the turn carries the session and, when a real
	// tracer is installed, the turn span's trace_id/span_id.
	log := observability.NewTracedLogger(o.logger.Handler(), sessionID, "orchestrator")

	s.AppendUser(userText)

	// Pre-check: restore the stage invariant in case counters were
	// edited outside the pipeline since the last turn.
	s.Stage = stage.Calculate(s.DPD, s.BrokenPromises, s.PaymentRefusals)
	stageBefore := s.Stage

	s.Strategy = strategy.Ensure(s.Strategy, s.Stage, s.DPD, s.BrokenPromises)
	span.AddEvent("strategy_ensured", trace.WithAttributes(
		attribute.String("strategy.id", s.Strategy.StrategyID)))

	critic := o.critic.Decide(ctx, s)
	span.AddEvent("critic_decided", trace.WithAttributes(
		attribute.String("critic.decision", critic.Decision.String())))

	memory.Apply(s, critic.MemoryWrite)

	// Stage is always recomputed after the merge. Any drift forces a
	// strategy rewrite regardless of what the critic concluded;
	// otherwise a newly detected risk behavior would go unanswered
	// until the next unrelated escalation.
	forced := false
	if newStage := stage.Calculate(s.DPD, s.BrokenPromises, s.PaymentRefusals); newStage != s.Stage {
		log.Info(ctx, "stage shifted after memory merge, forcing escalation",
			"stage_before", s.Stage.String(),
			"stage_after", newStage.String(),
			"critic_decision", critic.Decision.String())
		span.AddEvent("stage_shift_forced_escalation", trace.WithAttributes(
			attribute.String("stage.before", s.Stage.String()),
			attribute.String("stage.after", newStage.String())))

		s.Stage = newStage
		critic.Decision = decision.DecisionEscalateToMeta
		critic.DecisionReason += fmt.Sprintf(" (system: stage shifted to %s, forcing meta re-alignment)", newStage)
		forced = true
		o.forcedEscalations.Add(ctx, 1)
	}

	regenerated := false
	oldStrategyID := ""
	if critic.Decision.RequiresEscalation() {
		oldStrategyID = s.Strategy.StrategyID
		card := o.strategist.Generate(ctx, s, critic)

		// Provider output is advisory; the orchestrator is the final
		// authority on the stage field.
		if card.Stage != s.Stage {
			log.Warn(ctx, "strategist card claimed wrong stage, force-aligning",
				"card_stage", card.Stage.String(),
				"session_stage", s.Stage.String())
			card.Stage = s.Stage
		}

		s.Strategy = card
		regenerated = true
		o.regenerations.Add(ctx, 1)
		span.AddEvent("strategy_regenerated", trace.WithAttributes(
			attribute.String("strategy.old_id", oldStrategyID),
			attribute.String("strategy.new_id", card.StrategyID)))
	}

	reply := o.executor.Respond(ctx, s, s.Strategy, critic.MicroEdits)
	s.AppendAgent(reply)

	s.LastCritic = critic
	s.LastTelemetry = &session.Telemetry{
		CriticDecision:      critic.Decision,
		StageBefore:         stageBefore,
		StageAfter:          s.Stage,
		StrategyRegenerated: regenerated,
	}
	if regenerated {
		s.LastTelemetry.OldStrategyID = oldStrategyID
	}

	o.turnsTotal.Add(ctx, 1)
	log.Info(ctx, "turn completed",
		"critic_decision", critic.Decision.String(),
		"stage_before", stageBefore.String(),
		"stage_after", s.Stage.String(),
		"forced_escalation", forced,
		"strategy_regenerated", regenerated)

	return s, nil
}
