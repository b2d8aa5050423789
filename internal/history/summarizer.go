// Package history condenses a prior-conduct transcript into seed state
// for a fresh session, so a negotiation can start with the debtor's
// track record already in memory.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parley-ai/parley/internal/llm"
	"github.com/parley-ai/parley/internal/memory"
	"github.com/parley-ai/parley/internal/session"
	"github.com/parley-ai/parley/internal/stage"
	"github.com/parley-ai/parley/internal/types"
)

const summarizerInstruction = `You are a collections-history analyst. You receive the raw transcript of previous contact attempts with a debtor. Condense it into a JSON object with exactly these fields:
{
  "summary": "<2-4 sentence neutral summary of prior conduct>",
  "broken_promises": <integer count of payment promises the debtor made and missed>,
  "reason_category": "<one of: unemployment, illness, forgot, malicious_delay, other>",
  "ability_score": "<one of: full, partial, zero>",
  "reason_detail": "<the debtor's own explanations, verbatim where possible>"
}
Respond with the JSON object only.`

// Summary is the condensed record imported into a fresh session.
type Summary struct {
	Summary        string `json:"summary"`
	BrokenPromises int    `json:"broken_promises"`
	ReasonCategory string `json:"reason_category"`
	AbilityScore   string `json:"ability_score"`
	ReasonDetail   string `json:"reason_detail"`
}

// Summarizer runs one inference call over a prior-conduct transcript.
type Summarizer struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithLogger sets the logger used by the summarizer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSummarizer creates a Summarizer backed by the given provider.
func NewSummarizer(provider llm.Provider, model string, opts ...Option) *Summarizer {
	s := &Summarizer{
		provider: provider,
		model:    model,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize condenses a transcript. On provider or parse failure it
// returns a zero summary alongside the error; the caller proceeds
// without history rather than blocking the negotiation.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (*Summary, error) {
	if transcript == "" {
		return &Summary{}, nil
	}

	req := llm.NewCompletionRequest(s.model, []llm.Message{
		llm.NewSystemMessage(summarizerInstruction),
		llm.NewUserMessage(transcript),
	}, llm.WithTemperature(0.0))

	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		s.logger.Warn("history summarization failed, proceeding without history",
			"provider", s.provider.Name(), "error", err)
		return &Summary{}, types.WrapError(types.HISTORY_IMPORT_FAILED,
			"history summarization call failed", err)
	}

	summary, err := llm.ExtractJSONAs[Summary](resp.Message.Content)
	if err != nil {
		s.logger.Warn("history summary unparseable, proceeding without history",
			"provider", s.provider.Name(), "error", err)
		return &Summary{}, types.WrapError(types.HISTORY_PARSE_FAILED,
			"history summary failed schema extraction", err)
	}

	return &summary, nil
}

// Import summarizes a transcript and merges the result into the session
// through the memory merger, so the normal per-field policies apply
// (counters overwrite, reason detail accumulates). A failed summarize
// leaves the session untouched.
func (s *Summarizer) Import(ctx context.Context, sess *session.Session, transcript string) error {
	summary, err := s.Summarize(ctx, transcript)
	if err != nil {
		return err
	}

	if summary.Summary == "" {
		return nil
	}

	memory.Apply(sess, map[string]any{
		"history_summary": summary.Summary,
		"broken_promises": summary.BrokenPromises,
		"reason_category": summary.ReasonCategory,
		"ability_score":   summary.AbilityScore,
		"reason_detail":   summary.ReasonDetail,
		"history_events":  []string{fmt.Sprintf("imported history: %s", summary.Summary)},
	})

	// Imported counters shift the risk tier before the first turn runs.
	sess.Stage = stage.Calculate(sess.DPD, sess.BrokenPromises, sess.PaymentRefusals)

	return nil
}
