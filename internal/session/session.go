// Package session holds the per-counterparty negotiation state and the
// store that owns it. A session is mutated only by the turn pipeline:
// through the memory merger and the orchestrator's own field writes.
package session

import (
	"time"

	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/stage"
	"github.com/parley-ai/parley/internal/strategy"
)

// Dialogue roles. The agent side maps to the assistant role when the
// transcript is replayed to the model.
const (
	RoleUser   = "user"
	RoleAgent  = "agent"
	RoleSystem = "system"
)

// DialogueTurn is one entry in the append-only transcript.
type DialogueTurn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Telemetry is the per-turn record handed to the presentation layer.
type Telemetry struct {
	CriticDecision      decision.Decision `json:"critic_decision"`
	StageBefore         stage.Stage       `json:"stage_before"`
	StageAfter          stage.Stage       `json:"stage_after"`
	StrategyRegenerated bool              `json:"strategy_regenerated"`
	OldStrategyID       string            `json:"old_strategy_id,omitempty"`
}

// Session is one counterparty's negotiation state. Within a turn it is
// owned exclusively by the orchestrator; the store's per-key lock keeps
// concurrent turns on the same session out.
type Session struct {
	// Identity and product context
	CustomerID       string  `json:"customer_id" yaml:"customer_id"`
	OrganizationName string  `json:"organization_name,omitempty" yaml:"organization_name"`
	ProductName      string  `json:"product_name,omitempty" yaml:"product_name"`
	DebtAmount       float64 `json:"debt_amount" yaml:"debt_amount"`
	Currency         string  `json:"currency,omitempty" yaml:"currency"`

	// Behavioral counters driving the stage computation
	DPD              int `json:"dpd" yaml:"dpd"`
	BrokenPromises   int `json:"broken_promises" yaml:"broken_promises"`
	PaymentRefusals  int `json:"payment_refusals" yaml:"payment_refusals"`
	NoResponseStreak int `json:"no_response_streak" yaml:"no_response_streak"`

	// Policy inputs
	ExtensionEligible   bool   `json:"extension_eligible" yaml:"extension_eligible"`
	ApprovalID          string `json:"approval_id,omitempty" yaml:"approval_id"`
	AllowedContactHours string `json:"allowed_contact_hours,omitempty" yaml:"allowed_contact_hours"`

	// Derived risk tier; restored to Calculate(counters) at the start of
	// every turn
	Stage stage.Stage `json:"stage"`

	// Accumulated understanding of the debtor
	ReasonCategory      string   `json:"reason_category,omitempty"`
	AbilityScore        string   `json:"ability_score,omitempty"`
	ReasonDetail        string   `json:"reason_detail,omitempty"`
	UnresolvedObstacles []string `json:"unresolved_obstacles,omitempty"`
	HistoryRawReasons   []string `json:"history_raw_reasons,omitempty"`

	// Conversation state
	Dialogue       []DialogueTurn `json:"dialogue,omitempty"`
	HistorySummary string         `json:"history_summary,omitempty"`
	HistoryEvents  []string       `json:"history_events,omitempty"`

	// Pipeline state
	Strategy      *strategy.Artifact     `json:"strategy,omitempty"`
	LastCritic    *decision.CriticResult `json:"last_critic,omitempty"`
	LastTelemetry *Telemetry             `json:"last_telemetry,omitempty"`

	// Extra collects memory-patch keys that map to no typed field. The
	// patch is directive, not adversarial, so unknown keys are kept
	// verbatim rather than dropped.
	Extra map[string]any `json:"extra,omitempty"`
}

// New creates a session from the initialization contract. Every field
// outside the contract starts empty; the stage is computed immediately
// so the invariant holds from the first turn.
func New(p Profile) *Session {
	s := &Session{
		CustomerID:          p.CustomerID,
		OrganizationName:    p.OrganizationName,
		ProductName:         p.ProductName,
		DebtAmount:          p.DebtAmount,
		Currency:            p.Currency,
		DPD:                 p.DPD,
		BrokenPromises:      p.BrokenPromises,
		PaymentRefusals:     p.PaymentRefusals,
		ExtensionEligible:   p.ExtensionEligible,
		ApprovalID:          p.ApprovalID,
		AllowedContactHours: p.AllowedContactHours,
	}
	s.Stage = stage.Calculate(s.DPD, s.BrokenPromises, s.PaymentRefusals)
	return s
}

// AppendUser adds a user utterance to the transcript
func (s *Session) AppendUser(text string) {
	s.Dialogue = append(s.Dialogue, DialogueTurn{Role: RoleUser, Text: text, At: time.Now()})
}

// AppendAgent adds an agent reply to the transcript
func (s *Session) AppendAgent(text string) {
	s.Dialogue = append(s.Dialogue, DialogueTurn{Role: RoleAgent, Text: text, At: time.Now()})
}

// RecentDialogue returns the last n transcript entries, oldest first.
// This is the window sent to the model; the full transcript stays local.
func (s *Session) RecentDialogue(n int) []DialogueTurn {
	if n <= 0 || len(s.Dialogue) <= n {
		return s.Dialogue
	}
	return s.Dialogue[len(s.Dialogue)-n:]
}

// MemoryState snapshots the fields the decision roles reason over. The
// transcript is excluded; it travels separately as the recent window.
func (s *Session) MemoryState() map[string]any {
	return map[string]any{
		"customer_id":           s.CustomerID,
		"organization_name":     s.OrganizationName,
		"product_name":          s.ProductName,
		"debt_amount":           s.DebtAmount,
		"currency":              s.Currency,
		"dpd":                   s.DPD,
		"broken_promises":       s.BrokenPromises,
		"payment_refusals":      s.PaymentRefusals,
		"no_response_streak":    s.NoResponseStreak,
		"extension_eligible":    s.ExtensionEligible,
		"approval_id":           s.ApprovalID,
		"allowed_contact_hours": s.AllowedContactHours,
		"stage":                 s.Stage.String(),
		"reason_category":       s.ReasonCategory,
		"ability_score":         s.AbilityScore,
		"reason_detail":         s.ReasonDetail,
		"unresolved_obstacles":  s.UnresolvedObstacles,
	}
}
