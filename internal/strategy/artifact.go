// Package strategy defines the strategy artifact that governs a
// negotiation and the validator that keeps it consistent with the
// session's risk stage. Artifacts are replaced wholesale on escalation,
// never partially mutated.
package strategy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/stage"
)

// Artifact is one strategy card: the plan the executor works from until
// the next escalation replaces it.
type Artifact struct {
	// StrategyID identifies this card. Default cards carry fixed ids,
	// generated cards carry unique ones.
	StrategyID string `json:"strategy_id"`

	// Stage is the risk stage this card was generated for. The
	// orchestrator force-aligns it to the session stage; a card claiming
	// the wrong stage is corrected, never trusted.
	Stage stage.Stage `json:"stage"`

	// TodayKPI is the ordered list of goals for today's turns
	TodayKPI []string `json:"today_kpi"`

	// PressureLevel tags the card's delivery intensity. Shares the value
	// set of the executor tone knob and is non-decreasing with stage.
	PressureLevel decision.Tone `json:"pressure_level"`

	// AllowedActions enumerates what the executor may do under this card
	AllowedActions []string `json:"allowed_actions"`

	// Guardrails are compliance constraints the executor must respect
	Guardrails []string `json:"guardrails"`

	// EscalationActionsAllowed maps escalation action names to whether
	// SOP currently permits them
	EscalationActionsAllowed map[string]bool `json:"escalation_actions_allowed"`

	// Params carries free-form knobs the generator attached
	Params map[string]any `json:"params"`

	// Notes is optional generator commentary
	Notes string `json:"notes,omitempty"`
}

// Validate checks the structural invariants of the card
func (a *Artifact) Validate() error {
	if a == nil {
		return fmt.Errorf("artifact is nil")
	}

	if strings.TrimSpace(a.StrategyID) == "" {
		return fmt.Errorf("strategy_id is required")
	}

	if !a.Stage.IsValid() {
		return fmt.Errorf("invalid stage: %d", int(a.Stage))
	}

	if !a.PressureLevel.IsValid() {
		return fmt.Errorf("invalid pressure_level: %s", a.PressureLevel)
	}

	if len(a.TodayKPI) == 0 {
		return fmt.Errorf("today_kpi cannot be empty")
	}

	if len(a.AllowedActions) == 0 {
		return fmt.Errorf("allowed_actions cannot be empty")
	}

	return nil
}

// ParseArtifact parses generator JSON output (already extracted from any
// markdown wrapping) and validates it
func ParseArtifact(jsonStr string) (*Artifact, error) {
	if strings.TrimSpace(jsonStr) == "" {
		return nil, fmt.Errorf("empty JSON string")
	}

	var artifact Artifact
	if err := json.Unmarshal([]byte(jsonStr), &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse strategy JSON: %w", err)
	}

	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}

	return &artifact, nil
}

// ToJSON serializes the artifact to an indented JSON string
func (a *Artifact) ToJSON() (string, error) {
	if a == nil {
		return "", fmt.Errorf("cannot serialize nil artifact")
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal strategy: %w", err)
	}

	return string(data), nil
}

// String returns a short human-readable summary of the card
func (a *Artifact) String() string {
	if a == nil {
		return "<nil strategy>"
	}
	return fmt.Sprintf("Strategy{ID: %s, Stage: %s, Pressure: %s, Actions: %d}",
		a.StrategyID, a.Stage, a.PressureLevel, len(a.AllowedActions))
}
