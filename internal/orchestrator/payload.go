package orchestrator

import (
	"encoding/json"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/session"
	"github.com/parley-ai/parley/internal/stage"
	"github.com/parley-ai/parley/internal/strategy"
)

// defaultDialogueWindow is how many transcript entries travel to the
// model. Older turns are represented only through the history summary
// and the accumulated memory state.
const defaultDialogueWindow = 12

// dialogueEntry is the wire shape of one transcript entry in a payload.
// Timestamps stay local; the model only needs role and text.
type dialogueEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// contextPayload is the structured context sent alongside each role
// instruction.
type contextPayload struct {
	Strategy             *strategy.Artifact     `json:"strategy,omitempty"`
	MemoryState          map[string]any         `json:"memory_state"`
	HistorySummary       string                 `json:"history_summary,omitempty"`
	RecentDialogue       []dialogueEntry        `json:"recent_dialogue"`
	CriticVerdict        *decision.CriticResult `json:"critic_verdict,omitempty"`
	MicroEdits           *decision.MicroEdits   `json:"micro_edits,omitempty"`
	SOPNamedEscalation   bool                   `json:"sop_named_escalation_allowed"`
	CurrentStage         string                 `json:"current_stage"`
	CurrentBehaviorScore int                    `json:"current_behavior_score"`
}

// buildPayload assembles the shared context for a role call.
func buildPayload(s *session.Session, window int) contextPayload {
	if window <= 0 {
		window = defaultDialogueWindow
	}

	recent := s.RecentDialogue(window)
	entries := make([]dialogueEntry, 0, len(recent))
	for _, turn := range recent {
		entries = append(entries, dialogueEntry{Role: turn.Role, Text: turn.Text})
	}

	return contextPayload{
		Strategy:             s.Strategy,
		MemoryState:          s.MemoryState(),
		HistorySummary:       s.HistorySummary,
		RecentDialogue:       entries,
		SOPNamedEscalation:   stage.NamedEscalationAllowed(s.DPD, s.BrokenPromises),
		CurrentStage:         s.Stage.String(),
		CurrentBehaviorScore: stage.Score(s.DPD, s.BrokenPromises, s.PaymentRefusals),
	}
}

// encode marshals the payload for the user message of a role call.
// Marshal cannot fail here (the payload is built from plain maps,
// slices, and tagged structs), but the error path stays honest.
func (p contextPayload) encode() string {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
