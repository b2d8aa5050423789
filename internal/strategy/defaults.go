package strategy

import (
	"github.com/parley-ai/parley/internal/decision"
	"github.com/parley-ai/parley/internal/stage"
)

// DefaultForStage synthesizes the fixed fallback card for a stage. The
// dpd and brokenPromises counters feed the SOP gate that decides whether
// the Stage4 card may name a concrete consequence. Pressure level never
// decreases as the stage index rises.
func DefaultForStage(st stage.Stage, dpd, brokenPromises int) *Artifact {
	switch st {
	case stage.Stage0:
		return &Artifact{
			StrategyID:    "default_stage0_relationship",
			Stage:         stage.Stage0,
			PressureLevel: decision.TonePolite,
			TodayKPI: []string{
				"build rapport and confirm the relationship",
				"lightly remind of the upcoming due date",
			},
			AllowedActions: []string{
				"rapport_building",
				"soft_reminder",
				"confirm_contact",
			},
			Guardrails: []string{
				"no pressure tactics before the due date",
				"no consequence language",
			},
			EscalationActionsAllowed: map[string]bool{
				"named_escalation": false,
			},
			Params: map[string]any{
				"current_stage_pressure_level": string(decision.TonePolite),
				"pressure_tactics":             []string{},
			},
		}

	case stage.Stage1:
		return &Artifact{
			StrategyID:    "default_stage1_gentle",
			Stage:         stage.Stage1,
			PressureLevel: decision.TonePolite,
			TodayKPI: []string{
				"confirm awareness of the obligation",
				"secure a soft payment promise",
			},
			AllowedActions: []string{
				"payment_reminder",
				"confirm_amount_due",
				"ask_payment_date",
			},
			Guardrails: []string{
				"polite tone only",
			},
			EscalationActionsAllowed: map[string]bool{
				"named_escalation": false,
			},
			Params: map[string]any{
				"current_stage_pressure_level": string(decision.TonePolite),
				"pressure_tactics":             []string{"gentle_reminder"},
			},
		}

	case stage.Stage2:
		return &Artifact{
			StrategyID:    "default_stage2_light",
			Stage:         stage.Stage2,
			PressureLevel: decision.TonePoliteFirm,
			TodayKPI: []string{
				"get a concrete payment date",
				"log every obstacle the debtor raises",
			},
			AllowedActions: []string{
				"ask_commitment",
				"offer_extension_if_eligible",
				"probe_obstacles",
			},
			Guardrails: []string{
				"no named consequences yet",
			},
			EscalationActionsAllowed: map[string]bool{
				"named_escalation": false,
			},
			Params: map[string]any{
				"current_stage_pressure_level": string(decision.TonePoliteFirm),
				"pressure_tactics":             []string{"commitment_framing", "deadline_focus"},
			},
		}

	case stage.Stage3:
		return &Artifact{
			StrategyID:    "default_stage3_firm",
			Stage:         stage.Stage3,
			PressureLevel: decision.ToneFirm,
			TodayKPI: []string{
				"secure an immediate partial payment",
				"warn of consequences in generic terms",
			},
			AllowedActions: []string{
				"demand_commitment_today",
				"generic_consequence_warning",
				"restrict_extension",
			},
			Guardrails: []string{
				"consequences stay generic",
				"stay within the compliance script",
			},
			EscalationActionsAllowed: map[string]bool{
				"named_escalation": false,
			},
			Params: map[string]any{
				"current_stage_pressure_level": string(decision.ToneFirm),
				"pressure_tactics":             []string{"urgency", "consequence_framing"},
			},
		}

	default:
		return &Artifact{
			StrategyID:    "default_stage4_max",
			Stage:         stage.Stage4,
			PressureLevel: decision.ToneFirm,
			TodayKPI: []string{
				"demand immediate payment",
				"invoke named escalation if SOP permits",
			},
			AllowedActions: []string{
				"final_demand",
				"named_consequence_if_allowed",
				"handoff_option",
			},
			Guardrails: []string{
				"never threaten beyond the approved consequence list",
			},
			EscalationActionsAllowed: map[string]bool{
				"named_escalation": stage.NamedEscalationAllowed(dpd, brokenPromises),
			},
			Params: map[string]any{
				"current_stage_pressure_level": string(decision.ToneFirm),
				"pressure_tactics":             []string{"urgency", "named_consequence", "final_notice"},
			},
		}
	}
}
