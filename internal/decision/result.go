// Package decision defines the wire types produced by the critic role:
// the turn decision, the executor micro-edit directive, and the memory
// patch that carries session updates. These types sit below the session
// record so the session can persist the last critic result.
package decision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decision represents what the critic concluded about the current turn
type Decision string

const (
	// DecisionContinue keeps executing the current strategy unchanged
	DecisionContinue Decision = "CONTINUE"

	// DecisionAdaptWithinStrategy keeps the strategy but adjusts delivery
	// through micro-edits
	DecisionAdaptWithinStrategy Decision = "ADAPT_WITHIN_STRATEGY"

	// DecisionEscalateToMeta discards the strategy and asks the strategy
	// generator for a new one
	DecisionEscalateToMeta Decision = "ESCALATE_TO_META"

	// DecisionHandoff routes the negotiation to a human operator
	DecisionHandoff Decision = "HANDOFF"
)

// String returns the string representation of a Decision
func (d Decision) String() string {
	return string(d)
}

// IsValid checks if the Decision is one of the defined constants
func (d Decision) IsValid() bool {
	switch d {
	case DecisionContinue, DecisionAdaptWithinStrategy, DecisionEscalateToMeta, DecisionHandoff:
		return true
	default:
		return false
	}
}

// RequiresEscalation returns true if this decision forces a strategy rewrite
func (d Decision) RequiresEscalation() bool {
	return d == DecisionEscalateToMeta
}

// UnmarshalJSON implements json.Unmarshaler. Unknown values are rejected
// so a malformed critic response fails parsing instead of flowing through
// the pipeline as an empty decision.
func (d *Decision) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsed := Decision(strings.ToUpper(strings.TrimSpace(str)))
	if !parsed.IsValid() {
		return fmt.Errorf("invalid decision: %s", str)
	}

	*d = parsed
	return nil
}

// AskStyle controls how the executor phrases its ask.
type AskStyle string

const (
	AskStyleOpen         AskStyle = "open"
	AskStyleForcedChoice AskStyle = "forced_choice"
	AskStyleBinary       AskStyle = "binary"
)

// IsValid checks if the ask style is a defined value
func (a AskStyle) IsValid() bool {
	switch a {
	case AskStyleOpen, AskStyleForcedChoice, AskStyleBinary:
		return true
	default:
		return false
	}
}

// ConfirmationFormat controls what confirmation the executor demands.
type ConfirmationFormat string

const (
	ConfirmationNone            ConfirmationFormat = "none"
	ConfirmationAmountTimeToday ConfirmationFormat = "amount_time_today"
	ConfirmationReplyYesNo      ConfirmationFormat = "reply_yes_no"
)

// IsValid checks if the confirmation format is a defined value
func (c ConfirmationFormat) IsValid() bool {
	switch c {
	case ConfirmationNone, ConfirmationAmountTimeToday, ConfirmationReplyYesNo:
		return true
	default:
		return false
	}
}

// Tone is the delivery register the executor should use. The same value
// set tags strategy artifacts as their pressure level.
type Tone string

const (
	TonePolite     Tone = "polite"
	TonePoliteFirm Tone = "polite_firm"
	ToneFirm       Tone = "firm"
)

// IsValid checks if the tone is a defined value
func (t Tone) IsValid() bool {
	switch t {
	case TonePolite, TonePoliteFirm, ToneFirm:
		return true
	default:
		return false
	}
}

// MicroEdits is the critic's tuning directive for the executor: phrasing
// style, confirmation demand, tone, and output language. It travels from
// the critic call to the executor call within one turn.
type MicroEdits struct {
	AskStyle           AskStyle           `json:"ask_style,omitempty"`
	ConfirmationFormat ConfirmationFormat `json:"confirmation_format,omitempty"`
	Tone               Tone               `json:"tone,omitempty"`
	Language           string             `json:"language,omitempty"`
}

// Normalize replaces invalid or missing knob values with safe defaults.
// Critic output is advisory; a bad knob should degrade, not fail.
func (m MicroEdits) Normalize() MicroEdits {
	if !m.AskStyle.IsValid() {
		m.AskStyle = AskStyleOpen
	}
	if !m.ConfirmationFormat.IsValid() {
		m.ConfirmationFormat = ConfirmationNone
	}
	if !m.Tone.IsValid() {
		m.Tone = TonePolite
	}
	if m.Language == "" {
		m.Language = "zh"
	}
	return m
}

// CriticResult is the critic's structured verdict on one turn. It is
// produced fresh each turn and persisted only as the session's last
// critic result.
type CriticResult struct {
	// Decision is the critic's routing verdict for this turn
	Decision Decision `json:"decision"`

	// DecisionReason is the critic's free-text justification
	DecisionReason string `json:"decision_reason"`

	// ReasonCodes are machine-readable tags backing the decision
	ReasonCodes []string `json:"reason_codes,omitempty"`

	// ProgressEvents are negotiation milestones detected this turn
	// (e.g. promise_made, amount_confirmed)
	ProgressEvents []string `json:"progress_events,omitempty"`

	// MissingSlots are information gaps the executor should probe
	MissingSlots []string `json:"missing_slots,omitempty"`

	// MicroEdits tunes the executor's delivery this turn
	MicroEdits MicroEdits `json:"micro_edits_for_executor,omitempty"`

	// MemoryWrite is the patch to apply to the session record. Keys are
	// merged by per-field policy, not overwritten blindly.
	MemoryWrite map[string]any `json:"memory_write,omitempty"`

	// RiskFlags mark behaviors that feed future stage computation
	RiskFlags []string `json:"risk_flags,omitempty"`
}

// Validate checks that the result carries a usable decision
func (r *CriticResult) Validate() error {
	if r == nil {
		return fmt.Errorf("critic result is nil")
	}
	if !r.Decision.IsValid() {
		return fmt.Errorf("invalid decision: %s", r.Decision)
	}
	return nil
}

// ParseCriticResult parses critic JSON output (already extracted from any
// markdown wrapping) and validates it
func ParseCriticResult(jsonStr string) (*CriticResult, error) {
	if strings.TrimSpace(jsonStr) == "" {
		return nil, fmt.Errorf("empty JSON string")
	}

	var result CriticResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse critic result JSON: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid critic result: %w", err)
	}

	return &result, nil
}

// ToJSON serializes the CriticResult to an indented JSON string
func (r *CriticResult) ToJSON() (string, error) {
	if r == nil {
		return "", fmt.Errorf("cannot serialize nil critic result")
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal critic result: %w", err)
	}

	return string(data), nil
}

// String returns a human-readable summary of the result
func (r *CriticResult) String() string {
	if r == nil {
		return "<nil critic result>"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CriticResult{Decision: %s", r.Decision))

	if len(r.ReasonCodes) > 0 {
		sb.WriteString(fmt.Sprintf(", Codes: %s", strings.Join(r.ReasonCodes, ",")))
	}

	if len(r.MemoryWrite) > 0 {
		sb.WriteString(fmt.Sprintf(", MemoryKeys: %d", len(r.MemoryWrite)))
	}

	sb.WriteString("}")
	return sb.String()
}
